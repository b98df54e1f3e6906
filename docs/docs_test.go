package docs

import (
	"strings"
	"testing"
)

func TestSwaggerInfo(t *testing.T) {
	if SwaggerInfo == nil {
		t.Fatal("swagger info not initialized")
	}
	if SwaggerInfo.Title != "mNAV Tracker API" {
		t.Fatalf("unexpected title: %q", SwaggerInfo.Title)
	}
	if SwaggerInfo.BasePath != "/" {
		t.Fatalf("unexpected base path: %q", SwaggerInfo.BasePath)
	}
	for _, route := range []string{"/api/mnav", "/api/mnav/refresh", "/api/admin/mnav", "/api/signal", "/health"} {
		if !strings.Contains(SwaggerInfo.SwaggerTemplate, `"`+route+`"`) {
			t.Errorf("swagger template missing route %s", route)
		}
	}
}
