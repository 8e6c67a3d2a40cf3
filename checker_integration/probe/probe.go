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

// Package probe dials backing services declared in a project's env. Probes
// answer "reachable or not", they never create, read, or modify any data.
package probe

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	"github.com/golang/glog"
	_ "github.com/lib/pq"
)

// DbConfig is the connection block assembled from DB_* env keys.
type DbConfig struct {
	Connection string
	Host       string
	Port       string
	Database   string
	Username   string
	Password   string
	SslMode    string
}

// BuildPostgresDSN renders a lib/pq keyword/value DSN. Values pass through
// single-quote escaping, an env file can legally hold spaces and quotes.
func BuildPostgresDSN(config DbConfig) string {
	quote := func(s string) string {
		out := ""
		for _, r := range s {
			if r == '\'' || r == '\\' {
				out += "\\"
			}
			out += string(r)
		}
		return "'" + out + "'"
	}
	sslMode := config.SslMode
	if sslMode == "" {
		sslMode = "prefer"
	}
	dsn := fmt.Sprintf("host=%s port=%s dbname=%s sslmode=%s",
		quote(config.Host), quote(config.Port), quote(config.Database), sslMode)
	if config.Username != "" {
		dsn += " user=" + quote(config.Username)
	}
	if config.Password != "" {
		dsn += " password=" + quote(config.Password)
	}
	return dsn
}

// ProbePostgres opens a connection and pings it within timeout.
func ProbePostgres(config DbConfig, timeout time.Duration) error {
	db, err := sql.Open("postgres", BuildPostgresDSN(config))
	if err != nil {
		return fmt.Errorf("sql.Open: %v", err)
	}
	defer db.Close()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	err = db.PingContext(ctx)
	if err != nil {
		glog.Infof("postgres ping %s:%s failed: %v", config.Host, config.Port, err)
		return err
	}
	return nil
}

// ProbeTCP checks that host:port accepts a TCP connection within timeout.
// Used for database drivers without a bundled client and for redis and
// memcached cache stores.
func ProbeTCP(host, port string, timeout time.Duration) error {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, port), timeout)
	if err != nil {
		glog.Infof("tcp probe %s:%s failed: %v", host, port, err)
		return err
	}
	conn.Close()
	return nil
}

// DefaultPort returns the conventional port of a Laravel DB_CONNECTION
// driver, or "" when the driver has none (sqlite).
func DefaultPort(connection string) string {
	switch connection {
	case "mysql", "mariadb":
		return "3306"
	case "pgsql":
		return "5432"
	case "sqlsrv":
		return "1433"
	case "redis":
		return "6379"
	case "memcached":
		return "11211"
	}
	return ""
}
