package clickhouse

import (
	"strings"
	"testing"
	"time"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  ClientConfig
		want []string
	}{
		{
			name: "native",
			cfg:  ClientConfig{Host: "ch", Port: 9000, Database: "cardscout", User: "default", DialTimeout: 5 * time.Second},
			want: []string{"clickhouse://default:@ch:9000/cardscout", "dial_timeout=5s"},
		},
		{
			name: "http async",
			cfg:  ClientConfig{Host: "ch", Port: 8123, Database: "db", User: "u", Password: "p@ss", UseHTTP: true, AsyncInsert: true, WaitForAsync: true, MaxExecTime: 30 * time.Second},
			want: []string{"http://u:p%40ss@ch:8123/db", "async_insert=1", "wait_for_async_insert=1", "max_execution_time=30"},
		},
	}
	for _, tt := range tests {
		got := buildDSN(tt.cfg)
		for _, w := range tt.want {
			if !strings.Contains(got, w) {
				t.Errorf("%s: dsn %q missing %q", tt.name, got, w)
			}
		}
	}
}

func TestNewClientRequiresHost(t *testing.T) {
	if _, err := NewClient(); err == nil {
		t.Fatal("expected error without host")
	}
}
