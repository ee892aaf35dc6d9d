package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
)

type stubService struct {
	err      error
	authorID int64
	itemID   int64
	text     string
}

func (s *stubService) Create(_ context.Context, authorID, itemID int64, text string) (*comment.Comment, error) {
	s.authorID, s.itemID, s.text = authorID, itemID, text
	if s.err != nil {
		return nil, s.err
	}
	return &comment.Comment{
		ID:         1,
		Text:       text,
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: "Ben",
		CreatedAt:  time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (s *stubService) ListByItem(context.Context, int64) ([]*comment.Comment, error) {
	return []*comment.Comment{}, nil
}

func post(svc comment.Service, target string, body any) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/v1"), NewHandler(svc), auth.UserRequired(nil))

	buf, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.UserIDHeader, "2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateComment(t *testing.T) {
	svc := &stubService{}
	w := post(svc, "/v1/items/10/comment", gin.H{"text": "Worked great"})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(2), svc.authorID)
	assert.Equal(t, int64(10), svc.itemID)
	assert.Equal(t, "Worked great", svc.text)

	var resp CommentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Ben", resp.AuthorName)
}

func TestCreateCommentRejected(t *testing.T) {
	t.Run("missing text", func(t *testing.T) {
		w := post(&stubService{}, "/v1/items/10/comment", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not eligible", func(t *testing.T) {
		w := post(&stubService{err: comment.ErrNotEligible}, "/v1/items/10/comment", gin.H{"text": "hi"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"comment only allowed after completed usage"}`, w.Body.String())
	})

	t.Run("bad item id", func(t *testing.T) {
		w := post(&stubService{}, "/v1/items/0/comment", gin.H{"text": "hi"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
