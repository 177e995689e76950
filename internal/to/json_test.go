package to_test

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/flocksocial/flock/internal/to"
	"github.com/stretchr/testify/require"
)

// mockResponseWriter is an io.Writer that satisfies the http.ResponseWriter
// interface.
type mockResponseWriter struct {
	bytes.Buffer
}

func (w *mockResponseWriter) Header() http.Header {
	return http.Header{}
}

func (w *mockResponseWriter) WriteHeader(int) {}

func TestToJSONReturnsEmptyArrayForNilSlice(t *testing.T) {
	require := require.New(t)

	var s []string = nil
	var out mockResponseWriter
	err := to.JSON(&out, s)
	require.NoError(err)
	require.Equal("[]", out.String())
}

func TestToJSONReturnsEmptyObjectForNilMap(t *testing.T) {
	require := require.New(t)

	var m map[string]string = nil
	var out mockResponseWriter
	err := to.JSON(&out, m)
	require.NoError(err)
	require.Equal("{}", out.String())
}

func TestToJSONReturnsNullForNilPointer(t *testing.T) {
	require := require.New(t)

	var p *struct{} = nil
	var out mockResponseWriter
	err := to.JSON(&out, p)
	require.NoError(err)
	require.Equal("null", out.String())
}
