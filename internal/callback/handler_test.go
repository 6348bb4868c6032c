package callback

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/franknunes1612/saralucasacademy-sub002/internal/mocks"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/model"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/testutil"
)

const testState = "0123456789abcdef0123456789abcdef"

func recordedStages(rec *mocks.EventRecorder) []model.AuthStage {
	var stages []model.AuthStage
	for _, c := range rec.Calls {
		if c.Method == "Record" {
			stages = append(stages, c.Arguments.Get(1).(model.AuthStage))
		}
	}
	return stages
}

func newTestHandler(sessions *mocks.SessionWriter) (*Handler, *mocks.EventRecorder) {
	rec := &mocks.EventRecorder{}
	rec.On("Record", mock.Anything, mock.Anything, mock.Anything).Return()
	google := model.AuthProviderGoogle
	return NewHandler(sessions, rec, &google, testState, testutil.MakeNoopLogger()), rec
}

func waitOutcome(t *testing.T, h *Handler) (uuid.UUID, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return h.Wait(ctx)
}

func TestHandler_Callback(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		query      string
		setup      func(s *mocks.SessionWriter)
		wantStatus int
		wantStages []model.AuthStage
		wantErr    error
		wantUser   uuid.UUID
	}{
		{
			name:  "session established",
			query: "?state=" + testState + "&access_token=tok",
			setup: func(s *mocks.SessionWriter) {
				s.On("Save", mock.Anything, "tok").Return(userID, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantStages: []model.AuthStage{model.AuthStageCallbackReceived, model.AuthStageSessionEstablished},
			wantUser:   userID,
		},
		{
			name:       "provider error",
			query:      "?state=" + testState + "&error=access_denied&error_description=user+cancelled",
			wantStatus: http.StatusBadRequest,
			wantStages: []model.AuthStage{model.AuthStageCallbackReceived, model.AuthStageCallbackError},
		},
		{
			name:       "state mismatch",
			query:      "?state=other&access_token=tok",
			wantStatus: http.StatusBadRequest,
			wantStages: []model.AuthStage{model.AuthStageCallbackReceived, model.AuthStageStateMismatch},
			wantErr:    ErrStateMismatch,
		},
		{
			name:       "missing token",
			query:      "?state=" + testState,
			wantStatus: http.StatusBadRequest,
			wantStages: []model.AuthStage{model.AuthStageCallbackReceived, model.AuthStageSessionMissing},
			wantErr:    ErrMissingToken,
		},
		{
			name:  "token rejected",
			query: "?state=" + testState + "&access_token=bad",
			setup: func(s *mocks.SessionWriter) {
				s.On("Save", mock.Anything, "bad").Return(uuid.Nil, errors.New("token is expired")).Once()
			},
			wantStatus: http.StatusUnauthorized,
			wantStages: []model.AuthStage{model.AuthStageCallbackReceived, model.AuthStageCallbackError},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &mocks.SessionWriter{}
			if tt.setup != nil {
				tt.setup(sessions)
			}
			h, rec := newTestHandler(sessions)

			w := httptest.NewRecorder()
			h.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, Path+tt.query, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStages, recordedStages(rec))
			sessions.AssertExpectations(t)

			gotUser, err := waitOutcome(t, h)
			if tt.wantStatus == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, tt.wantUser, gotUser)
				return
			}
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestHandler_OnlyFirstCallbackCounts(t *testing.T) {
	userID := uuid.New()
	sessions := &mocks.SessionWriter{}
	sessions.On("Save", mock.Anything, "tok").Return(userID, nil)
	h, _ := newTestHandler(sessions)
	router := h.Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, Path+"?state=wrong&access_token=tok", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, Path+"?state="+testState+"&access_token=tok", nil))
	require.Equal(t, http.StatusOK, w.Code)

	_, err := waitOutcome(t, h)
	assert.ErrorIs(t, err, ErrStateMismatch)
}

func TestHandler_ProviderCarriedInEvents(t *testing.T) {
	sessions := &mocks.SessionWriter{}
	h, rec := newTestHandler(sessions)

	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, Path+"?error=access_denied", nil))

	require.NotEmpty(t, rec.Calls)
	for _, c := range rec.Calls {
		details := c.Arguments.Get(2).(model.AuthEventDetails)
		require.NotNil(t, details.Provider)
		assert.Equal(t, model.AuthProviderGoogle, *details.Provider)
		assert.Equal(t, Path, details.URL)
	}
	last := rec.Calls[len(rec.Calls)-1].Arguments.Get(2).(model.AuthEventDetails)
	assert.Equal(t, "provider returned error: access_denied", last.Err.(error).Error())
}

func TestHandler_Healthz(t *testing.T) {
	h := NewHandler(&mocks.SessionWriter{}, nil, nil, "", testutil.MakeNoopLogger())

	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestHandler_WaitHonoursContext(t *testing.T) {
	h := NewHandler(&mocks.SessionWriter{}, nil, nil, testState, testutil.MakeNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHandler_UnknownRoute(t *testing.T) {
	h := NewHandler(&mocks.SessionWriter{}, nil, nil, testState, testutil.MakeNoopLogger())

	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	h.Router().ServeHTTP(w, httptest.NewRequest(http.MethodPost, Path, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
