package http_test

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	_ "github.com/jhoicas/fulfillment-core/docs"
)

var fiberParam = regexp.MustCompile(`:(\w+)`)

type swaggerDoc struct {
	Paths               map[string]map[string]json.RawMessage `json:"paths"`
	SecurityDefinitions map[string]json.RawMessage            `json:"securityDefinitions"`
}

func readSwagger(t *testing.T) swaggerDoc {
	t.Helper()
	raw, err := swag.ReadDoc()
	require.NoError(t, err)
	var doc swaggerDoc
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestSwagger_DocumentaTodasLasRutasDeLaAPI(t *testing.T) {
	doc := readSwagger(t)
	require.Contains(t, doc.SecurityDefinitions, "Bearer")

	f := newAPI(t)
	seen := map[string]bool{}
	for _, r := range f.app.GetRoutes(true) {
		switch r.Method {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		default:
			continue
		}
		if !strings.HasPrefix(r.Path, "/api/") {
			continue
		}
		path := strings.TrimRight(r.Path, "/")
		path = fiberParam.ReplaceAllString(path, "{$1}")
		method := strings.ToLower(r.Method)
		seen[method+" "+path] = true

		ops, ok := doc.Paths[path]
		if assert.True(t, ok, "ruta sin documentar: %s %s", r.Method, path) {
			assert.Contains(t, ops, method, "método sin documentar: %s %s", r.Method, path)
		}
	}

	for path, ops := range doc.Paths {
		for method := range ops {
			assert.True(t, seen[method+" "+path], "documentado pero no registrado: %s %s", method, path)
		}
	}
}
