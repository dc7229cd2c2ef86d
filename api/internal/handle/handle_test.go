package handle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waste-scan/api/internal/waste"
)

type fakeEngine struct {
	profile waste.ItemProfile
	err     error
}

func (f *fakeEngine) Name() string     { return "fake" }
func (f *fakeEngine) GetModel() string { return "fake" }

func (f *fakeEngine) DetectLabels(context.Context, []byte, string) ([]waste.LabelScore, error) {
	return f.profile.RawLabels, f.err
}

func (f *fakeEngine) DetectItemProfile(context.Context, []byte, string) (waste.ItemProfile, error) {
	return f.profile, f.err
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartUpload(t *testing.T, contentType string, payload []byte, jurisdictionID string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="item.png"`)
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)

	if jurisdictionID != "" {
		require.NoError(t, w.WriteField("jurisdiction_id", jurisdictionID))
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestClassify(t *testing.T) {
	t.Parallel()

	t.Run("happy path", func(t *testing.T) {
		eng := &fakeEngine{profile: waste.ItemProfile{
			Material:          waste.MaterialRigidPlastic,
			FormFactor:        waste.FormBottle,
			ContaminationRisk: waste.ContaminationLow,
			SpecialHandling:   waste.SpecialNone,
			Confidence:        0.9,
			RawLabels:         []waste.LabelScore{{Label: "plastic bottle", Score: 0.9}},
		}}
		h := New(eng, nil, "CA_DEFAULT")

		body, ct := multipartUpload(t, "image/png", testPNG(t), "CA_SF")
		req := httptest.NewRequest(http.MethodPost, "/v1/classify", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()

		h.Classify(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp ClassifyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, waste.BinBlue, resp.Result.Bin)
		assert.Equal(t, waste.ConfidenceHigh, resp.Result.Confidence)
		assert.False(t, resp.NeedsClarification)
		assert.Equal(t, "CA_SF", resp.JurisdictionID)
		assert.True(t, strings.HasPrefix(resp.RequestID, "req_"))
	})

	t.Run("clarification flows through", func(t *testing.T) {
		eng := &fakeEngine{profile: waste.ItemProfile{
			Material:          waste.MaterialPaperCardboard,
			FormFactor:        waste.FormBox,
			ContaminationRisk: waste.ContaminationUnknown,
			SpecialHandling:   waste.SpecialNone,
			Confidence:        0.6,
		}}
		h := New(eng, nil, "CA_DEFAULT")

		body, ct := multipartUpload(t, "image/png", testPNG(t), "")
		req := httptest.NewRequest(http.MethodPost, "/v1/classify", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()

		h.Classify(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp ClassifyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.NeedsClarification)
		require.NotNil(t, resp.Clarification)
		assert.Equal(t, "q_food_soiled_01", resp.Clarification.QuestionID)
		assert.Equal(t, "CA_DEFAULT", resp.JurisdictionID, "falls back to the configured default")
	})

	t.Run("unsupported media type", func(t *testing.T) {
		h := New(&fakeEngine{}, nil, "CA_DEFAULT")

		body, ct := multipartUpload(t, "image/gif", []byte("GIF89a"), "")
		req := httptest.NewRequest(http.MethodPost, "/v1/classify", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()

		h.Classify(rec, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		assert.Contains(t, rec.Body.String(), "Unsupported media type")
	})

	t.Run("undecodable image", func(t *testing.T) {
		h := New(&fakeEngine{}, nil, "CA_DEFAULT")

		body, ct := multipartUpload(t, "image/png", []byte("not a png"), "")
		req := httptest.NewRequest(http.MethodPost, "/v1/classify", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()

		h.Classify(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("oversized upload maps to 413", func(t *testing.T) {
		h := New(&fakeEngine{}, nil, "CA_DEFAULT")

		// Well past the body reader bound, not just the file limit.
		big := bytes.Repeat([]byte{0xAB}, 12<<20)
		body, ct := multipartUpload(t, "image/jpeg", big, "")
		req := httptest.NewRequest(http.MethodPost, "/v1/classify", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()

		h.Classify(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "File too large")
	})

	t.Run("file over limit within parse bound maps to 413", func(t *testing.T) {
		h := New(&fakeEngine{}, nil, "CA_DEFAULT")

		big := bytes.Repeat([]byte{0xCD}, maxUploadBytes+(256<<10))
		body, ct := multipartUpload(t, "image/jpeg", big, "")
		req := httptest.NewRequest(http.MethodPost, "/v1/classify", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()

		h.Classify(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())
	})

	t.Run("provider failure maps to 502", func(t *testing.T) {
		h := New(&fakeEngine{err: errors.New("model unavailable")}, nil, "CA_DEFAULT")

		body, ct := multipartUpload(t, "image/png", testPNG(t), "")
		req := httptest.NewRequest(http.MethodPost, "/v1/classify", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()

		h.Classify(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "Vision provider error")
	})

	t.Run("GET rejected", func(t *testing.T) {
		h := New(&fakeEngine{}, nil, "CA_DEFAULT")
		req := httptest.NewRequest(http.MethodGet, "/v1/classify", nil)
		rec := httptest.NewRecorder()

		h.Classify(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestClassifyLabels(t *testing.T) {
	t.Parallel()

	h := New(&fakeEngine{}, nil, "CA_DEFAULT")

	payload := `{"labels":[{"label":"plastic bag","score":0.8}]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/classify/labels", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	h.ClassifyLabels(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ClassifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, waste.BinGray, resp.Result.Bin)
}

func TestClarify(t *testing.T) {
	t.Parallel()

	t.Run("resolves the food-soiled question", func(t *testing.T) {
		h := New(&fakeEngine{}, nil, "CA_DEFAULT")

		payload := `{"request_id":"req_abc123","question_id":"q_food_soiled_01","answer":true,"top_labels":[{"label":"paper box","score":0.7}]}`
		req := httptest.NewRequest(http.MethodPost, "/v1/clarify", strings.NewReader(payload))
		rec := httptest.NewRecorder()

		h.Clarify(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp ClassifyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, waste.BinGreen, resp.Result.Bin)
		assert.Equal(t, 0.70, resp.Result.ConfidenceScore)
		assert.False(t, resp.NeedsClarification, "clarification is one level deep")
		assert.Nil(t, resp.Clarification)
		assert.Equal(t, "req_abc123", resp.RequestID, "caller's request id echoes back")
	})

	t.Run("unknown question id is a terminal outcome", func(t *testing.T) {
		h := New(&fakeEngine{}, nil, "CA_DEFAULT")

		payload := `{"question_id":"q_bogus","answer":false}`
		req := httptest.NewRequest(http.MethodPost, "/v1/clarify", strings.NewReader(payload))
		rec := httptest.NewRecorder()

		h.Clarify(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp ClassifyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, waste.BinUnknown, resp.Result.Bin)
		assert.Equal(t, 0.0, resp.Result.ConfidenceScore)
	})

	t.Run("bad json rejected", func(t *testing.T) {
		h := New(&fakeEngine{}, nil, "CA_DEFAULT")

		req := httptest.NewRequest(http.MethodPost, "/v1/clarify", strings.NewReader("{"))
		rec := httptest.NewRecorder()

		h.Clarify(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
