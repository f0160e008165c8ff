package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	loadtop "github.com/jondoveston/loadtop/internal"
)

func TestRenderCommandUsesPositionalURL(t *testing.T) {
	t.Setenv("LOADTOP_BASE_URL", "")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != loadtop.LOAD_ENDPOINT_PATH {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"timestamp":["10:00","10:01"],"cpu_percentage":[12,15],"memory_percentage":[40,42]}`))
	}))
	defer srv.Close()

	var out, logs bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&logs)
	rootCmd.SetArgs([]string{"render", srv.URL + "/dashboard/", "--width", "60", "--height", "12"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("render: %v\n%s", err, logs.String())
	}
	for _, want := range []string{"CPU", "MEM", "10:01"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output is missing %q:\n%s", want, out.String())
		}
	}
}

func TestViperKey(t *testing.T) {
	if got := viperKey("prometheus-url"); got != "prometheus_url" {
		t.Errorf("viperKey() = %s", got)
	}
}
