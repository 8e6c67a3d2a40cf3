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

// Package sender reports anonymous usage events to the ShieldCI receiver.
// Events are queued and posted by a background goroutine so a slow or
// unreachable receiver never blocks the analysis.
package sender

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// Events emitted by the analyzer.
const (
	EventRunStarted  = "run_started"
	EventRunFinished = "run_finished"
)

const (
	product     = "shieldci-analyze"
	receiverURL = "https://telemetry.shieldci.dev/receiver.php"
	maxRetries  = 3
	retryDelay  = 5 * time.Second
)

// Fields carries the per-event payload, analysis facts only. Nothing here
// may identify the machine beyond what hostInfo already reports.
type Fields = map[string]any

type hostInfo struct {
	Hostname string `json:"hostname,omitempty"`
	OS       string `json:"os"`
	Arch     string `json:"arch"`
	NumCPU   int    `json:"num_cpu"`
	Kernel   string `json:"kernel,omitempty"`
}

type event struct {
	SessionID string    `json:"session_id"`
	EventID   string    `json:"event_id"`
	Name      string    `json:"name"`
	Product   string    `json:"product"`
	SentAt    time.Time `json:"sent_at"`
	Host      *hostInfo `json:"host,omitempty"`
	Fields    Fields    `json:"fields,omitempty"`
}

var q = make(chan *event, 1000)

var pendingEvents sync.WaitGroup

var (
	waitStartMutex sync.Mutex
	waitStarted    bool
	waitStartTime  time.Time
)

var sessionID = uuid.NewString()

func charArrayToString(ca []int8) string {
	var bs []byte
	for _, c := range ca {
		if c == 0 {
			break
		}
		bs = append(bs, byte(c))
	}
	return string(bs)
}

func kernelRelease() string {
	if runtime.GOOS != "linux" {
		return ""
	}
	var utsname syscall.Utsname
	if err := syscall.Uname(&utsname); err != nil {
		return ""
	}
	return charArrayToString(utsname.Release[:])
}

func collectHostInfo() *hostInfo {
	hostname, _ := os.Hostname()
	return &hostInfo{
		Hostname: hostname,
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		NumCPU:   runtime.NumCPU(),
		Kernel:   kernelRelease(),
	}
}

func newEvent(name string, fields Fields) *event {
	return &event{
		SessionID: sessionID,
		EventID:   uuid.NewString(),
		Name:      name,
		Product:   product,
		SentAt:    time.Now().UTC(),
		Fields:    fields,
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			TLSHandshakeTimeout:   retryDelay,
			DisableKeepAlives:     true,
			MaxIdleConns:          1,
			MaxConnsPerHost:       1,
			IdleConnTimeout:       1 * time.Millisecond,
			ResponseHeaderTimeout: retryDelay,
		},
		Timeout: 30 * time.Second,
	}
}

func init() {
	go func() {
		// the host block rides on the first delivered event of a session
		host := collectHostInfo()
		client := newHTTPClient()

		for ev := range q {
			ev.Host = host

			payload, err := json.Marshal(ev)
			if err != nil {
				pendingEvents.Done()
				continue
			}

			retryCount := 0
			for {
				if hasWaitedTooLong() {
					break
				}

				err := postEvent(client, payload)
				client.CloseIdleConnections()
				if err == nil {
					host = nil
					break
				}

				// the connection may be poisoned, start over
				client = newHTTPClient()

				retryCount++
				if retryCount >= maxRetries {
					break
				}

				time.Sleep(retryDelay)
			}

			pendingEvents.Done()
		}
	}()
}

func postEvent(client *http.Client, payload []byte) error {
	req, err := http.NewRequest("POST", receiverURL, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("resp status %d %s", resp.StatusCode, resp.Status)
	}

	return nil
}

// Send queues one event for delivery. It never blocks on the network.
func Send(name string, fields Fields) {
	pendingEvents.Add(1)
	q <- newEvent(name, fields)
}

// Wait blocks until every queued event is delivered or given up on. The
// sender stops retrying one minute after Wait is first called so a dead
// receiver cannot hold the analyzer exit hostage.
func Wait() {
	setWaitStarted()
	pendingEvents.Wait()
}

func setWaitStarted() {
	waitStartMutex.Lock()
	defer waitStartMutex.Unlock()
	waitStarted = true
	waitStartTime = time.Now()
}

func hasWaitedTooLong() bool {
	waitStartMutex.Lock()
	defer waitStartMutex.Unlock()
	return waitStarted && time.Since(waitStartTime) > 1*time.Minute
}
