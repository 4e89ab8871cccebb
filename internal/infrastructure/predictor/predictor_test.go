package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"slotzi.backend/internal/config"
	"slotzi.backend/internal/domain/services"
)

func TestHTTPPredictor_Success(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "predicted_time": "20:15:00"})
	}))
	defer srv.Close()

	p := NewHTTPPredictor(srv.URL, time.Second)
	end, err := p.PredictEndTime(context.Background(), services.PredictionRequest{
		GroupSize: 4,
		SlotType:  "casual",
		Date:      "2026-10-16",
		Time:      "18:30:00",
	})

	require.NoError(t, err)
	assert.Equal(t, "20:15:00", end)
	assert.Equal(t, float64(4), got["group_size"])
	assert.Equal(t, "casual", got["slot_type"])
	assert.Equal(t, "2026-10-16", got["date"])
	assert.Equal(t, "18:30:00", got["time"])
}

func TestHTTPPredictor_Failures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"non-2xx": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"unsuccessful": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"success":false,"message":"model unavailable"}`))
		},
		"missing time": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"success":true}`))
		},
		"bad json": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()

			_, err := NewHTTPPredictor(srv.URL, time.Second).PredictEndTime(context.Background(), services.PredictionRequest{Time: "18:00:00"})
			require.Error(t, err)
		})
	}
}

func TestHTTPPredictor_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"success":true,"predicted_time":"19:00:00"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPPredictor(srv.URL, 20*time.Millisecond).PredictEndTime(context.Background(), services.PredictionRequest{Time: "18:00:00"})
	require.Error(t, err)
}

func TestFixedPredictor(t *testing.T) {
	p := NewFixedPredictor(90 * time.Minute)
	ctx := context.Background()

	end, err := p.PredictEndTime(ctx, services.PredictionRequest{Time: "18:00:00"})
	require.NoError(t, err)
	assert.Equal(t, "19:30:00", end)

	end, err = p.PredictEndTime(ctx, services.PredictionRequest{Time: "7:15 PM"})
	require.NoError(t, err)
	assert.Equal(t, "20:45:00", end)

	end, err = p.PredictEndTime(ctx, services.PredictionRequest{Time: "23:00:00"})
	require.NoError(t, err)
	assert.Equal(t, "23:59:59", end)

	_, err = p.PredictEndTime(ctx, services.PredictionRequest{Time: "late"})
	require.Error(t, err)
}

func TestNew_SelectsImplementation(t *testing.T) {
	_, fixed := New(config.PredictorConfig{FallbackSlot: time.Hour}).(*FixedPredictor)
	assert.True(t, fixed)

	_, remote := New(config.PredictorConfig{URL: "http://predictor.local/predict"}).(*HTTPPredictor)
	assert.True(t, remote)
}
