/*
ShieldCI Analyze - A health analyzer for Laravel applications
Copyright (C) 2026  ShieldCI Ltd.

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package sender

import (
	"encoding/json"
	"runtime"
	"testing"
)

func TestNewEvent(t *testing.T) {
	first := newEvent(EventRunStarted, Fields{"project_name": "shop"})
	second := newEvent(EventRunFinished, nil)
	if first.Name != EventRunStarted || second.Name != EventRunFinished {
		t.Errorf("unexpected event names: %v, %v", first.Name, second.Name)
	}
	if first.Product != product || second.Product != product {
		t.Errorf("every event shall carry the product tag")
	}
	if first.SessionID != second.SessionID {
		t.Errorf("events of one run shall share a session id")
	}
	if first.EventID == second.EventID || first.EventID == "" {
		t.Errorf("event ids shall be unique and set")
	}
	if first.SentAt.IsZero() {
		t.Errorf("sent_at shall be set")
	}
}

func TestEventPayloadShape(t *testing.T) {
	payload, err := json.Marshal(newEvent(EventRunFinished, Fields{"results": 3}))
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"session_id", "event_id", "name", "product", "sent_at", "fields"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("payload is missing key %q", key)
		}
	}
	// the host block is attached by the delivery goroutine, not here
	if _, ok := decoded["host"]; ok {
		t.Errorf("host shall be omitted until delivery")
	}
	fields, ok := decoded["fields"].(map[string]any)
	if !ok || fields["results"] != float64(3) {
		t.Errorf("unexpected fields: %v", decoded["fields"])
	}
}

func TestCollectHostInfo(t *testing.T) {
	host := collectHostInfo()
	if host.OS != runtime.GOOS || host.Arch != runtime.GOARCH {
		t.Errorf("unexpected platform: %v/%v", host.OS, host.Arch)
	}
	if host.NumCPU < 1 {
		t.Errorf("unexpected cpu count: %d", host.NumCPU)
	}
}
