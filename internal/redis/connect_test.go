package redis

import (
	"testing"
	"time"
)

func TestOptionsWithDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   Options
		want Options
	}{
		{
			name: "zero values take defaults",
			in:   Options{Addr: "localhost:6379"},
			want: Options{
				Addr:           "localhost:6379",
				ConnectRetries: 5,
				DialTimeout:    5 * time.Second,
				ReadTimeout:    3 * time.Second,
				WriteTimeout:   3 * time.Second,
			},
		},
		{
			name: "configured values are kept",
			in: Options{
				Addr:           "redis:6379",
				Password:       "secret",
				ConnectRetries: 2,
				DialTimeout:    time.Second,
				ReadTimeout:    250 * time.Millisecond,
				WriteTimeout:   250 * time.Millisecond,
			},
			want: Options{
				Addr:           "redis:6379",
				Password:       "secret",
				ConnectRetries: 2,
				DialTimeout:    time.Second,
				ReadTimeout:    250 * time.Millisecond,
				WriteTimeout:   250 * time.Millisecond,
			},
		},
		{
			name: "negative retries fall back",
			in:   Options{ConnectRetries: -1},
			want: Options{
				ConnectRetries: 5,
				DialTimeout:    5 * time.Second,
				ReadTimeout:    3 * time.Second,
				WriteTimeout:   3 * time.Second,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.withDefaults()
			if got != tt.want {
				t.Errorf("withDefaults() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
