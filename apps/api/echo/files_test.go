package echoapi_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mentori/core/user"
	"github.com/trezcool/mentori/services/objectstore"
)

func newUploadRequest(t *testing.T, token, field, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if field != "" {
		fw, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/files", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func Test_fileApi(t *testing.T) {
	app := newTestApp(t)
	mentee := app.createUser(t, "mentee-1", "kim@test.kr", "Kim", user.RoleMentee)
	other := app.createUser(t, "mentee-2", "lee@test.kr", "Lee", user.RoleMentee)
	token := app.token(t, mentee)

	upload := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)
		return rec
	}

	t.Run("auth required", func(t *testing.T) {
		req := newUploadRequest(t, token, "file", "a.txt", []byte("hi"))
		req.Header.Del("Authorization")
		assert.Equal(t, http.StatusUnauthorized, upload(req).Code)
	})

	t.Run("missing file", func(t *testing.T) {
		rec := upload(newUploadRequest(t, token, "", "", nil))
		checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: marshallObj(t, map[string]string{"file": "this field is required"})}, rec)
	})

	t.Run("too large", func(t *testing.T) {
		rec := upload(newUploadRequest(t, token, "file", "big.txt", bytes.Repeat([]byte("a"), int(app.conf.Storage.MaxUploadSize)+1)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("image is converted", func(t *testing.T) {
		rec := upload(newUploadRequest(t, token, "file", "My Notes.png", pngBytes(t, 200, 100)))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var f objectstore.File
		unmarshall(t, rec, &f)
		assert.Equal(t, "image/webp", f.ContentType)
		assert.True(t, strings.HasPrefix(f.Key, mentee.ID+"/"), f.Key)
		assert.True(t, strings.HasSuffix(f.Key, ".webp"), f.Key)
		assert.Equal(t, app.conf.Storage.PublicBaseURL+"/"+f.Key, f.URL)

		_, err := os.Stat(filepath.Join(app.conf.Storage.LocalDir, filepath.FromSlash(f.Key)))
		require.NoError(t, err)

		// only the uploader may delete it
		rec = app.do(http.MethodDelete, "/v1/files/"+f.Key, app.token(t, other))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		rec = app.do(http.MethodDelete, "/v1/files/"+f.Key, token)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		_, err = os.Stat(filepath.Join(app.conf.Storage.LocalDir, filepath.FromSlash(f.Key)))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("other files pass through", func(t *testing.T) {
		rec := upload(newUploadRequest(t, token, "file", "worksheet.pdf", []byte("%PDF-1.4 fake")))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var f objectstore.File
		unmarshall(t, rec, &f)
		assert.Equal(t, "application/pdf", f.ContentType)
		assert.True(t, strings.HasSuffix(f.Key, "_worksheet.pdf"), f.Key)
	})
}
