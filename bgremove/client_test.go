package bgremove

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRemover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		f, _, err := r.FormFile(FormField)
		if !assert.NoError(t, err) {
			http.Error(w, "No file uploaded", http.StatusBadRequest)
			return
		}
		defer f.Close()

		img, err := png.Decode(f)
		if assert.NoError(t, err) {
			assert.Equal(t, 4, img.Bounds().Dx())
		}

		w.Header().Set("Content-Type", "image/png")
		_ = png.Encode(w, framed(2, 2, white, white))
	}))
	defer srv.Close()

	out, err := NewHTTPRemover(srv.URL).Remove(context.Background(), framed(4, 4, white, red))
	require.NoError(t, err)
	assert.Equal(t, 2, out.Bounds().Dx())
	assert.Equal(t, white, out.NRGBAAt(1, 1))
}

func TestHTTPRemover_Errors(t *testing.T) {
	for name, handler := range map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Background removal failed", http.StatusInternalServerError)
		},
		"content type": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
		},
		"body": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("not a png"))
		},
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()

			_, err := NewHTTPRemover(srv.URL).Remove(context.Background(), framed(4, 4, white, red))
			assert.Error(t, err)
		})
	}
}

func TestHTTPRemover_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPRemover(url).Remove(context.Background(), framed(4, 4, white, red))
	assert.Error(t, err)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

type failingBody struct {
	io.Reader
}

func (failingBody) Close() error { return errors.New("connection reset") }

func TestHTTPRemover_LogsCloseFailure(t *testing.T) {
	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, framed(2, 2, white, white)))

	r := &HTTPRemover{
		Endpoint: "http://removal.invalid/remove-bg",
		Client: &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"image/png"}},
				Body:       failingBody{bytes.NewReader(img.Bytes())},
				Request:    req,
			}, nil
		})},
	}
	_, err := r.Remove(context.Background(), framed(4, 4, white, red))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "could not close the response body: connection reset")
}
