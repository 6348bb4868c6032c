package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/franknunes1612/saralucasacademy-sub002/internal/mocks"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/model"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/testutil"
)

func newPrefs(submitted bool) *mocks.PreferenceStore {
	prefs := &mocks.PreferenceStore{}
	if submitted {
		prefs.On("Get", mock.Anything, model.LeadSubmittedKey).Return("true", true, nil)
	} else {
		prefs.On("Get", mock.Anything, model.LeadSubmittedKey).Return("", false, nil)
	}
	return prefs
}

func TestLeadCapture_RejectsInvalidEmail(t *testing.T) {
	inputs := []string{"", "   ", "user.example.com", "no-at-sign", "\t\n"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			store := &mocks.LeadStore{}
			prefs := newPrefs(false)

			c := NewLeadCapture(context.Background(), store, prefs, "", testutil.MakeNoopLogger())
			c.SetEmail(input)

			err := c.Submit(context.Background())
			require.ErrorIs(t, err, model.ErrInvalidEmail)
			assert.False(t, c.IsSubmitted())
			assert.NotEmpty(t, c.Error())
			assert.Equal(t, input, c.Email())
			store.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
			prefs.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestLeadCapture_SubmitNormalizes(t *testing.T) {
	store := &mocks.LeadStore{}
	prefs := newPrefs(false)
	prefs.On("Set", mock.Anything, model.LeadSubmittedKey, "true").Return(nil)
	store.On("Upsert", mock.Anything, mock.MatchedBy(func(l model.Lead) bool {
		return l.Email == "jane@example.com" && l.Source == "landing_page" && !l.CreatedAt.IsZero()
	})).Return(model.Lead{Email: "jane@example.com"}, nil)

	c := NewLeadCapture(context.Background(), store, prefs, "landing_page", testutil.MakeNoopLogger())
	c.SetEmail("  Jane@Example.COM ")

	require.NoError(t, c.Submit(context.Background()))
	assert.True(t, c.IsSubmitted())
	assert.Empty(t, c.Email())
	assert.Empty(t, c.Error())
	assert.False(t, c.IsSubmitting())
	store.AssertExpectations(t)
	prefs.AssertExpectations(t)
}

func TestLeadCapture_RemoteFailureStillSucceedsLocally(t *testing.T) {
	store := &mocks.LeadStore{}
	prefs := newPrefs(false)
	prefs.On("Set", mock.Anything, model.LeadSubmittedKey, "true").Return(nil)
	store.On("Upsert", mock.Anything, mock.Anything).Return(model.Lead{}, errors.New("permission denied for table leads"))

	c := NewLeadCapture(context.Background(), store, prefs, "", testutil.MakeNoopLogger())
	c.SetEmail("user@example.com")

	require.NoError(t, c.Submit(context.Background()))
	assert.True(t, c.IsSubmitted())
	assert.Empty(t, c.Email())
	assert.Empty(t, c.Error())
}

func TestLeadCapture_NoRemoteStore(t *testing.T) {
	prefs := newPrefs(false)
	prefs.On("Set", mock.Anything, model.LeadSubmittedKey, "true").Return(nil)

	c := NewLeadCapture(context.Background(), nil, prefs, "", testutil.MakeNoopLogger())
	c.SetEmail("user@example.com")

	require.NoError(t, c.Submit(context.Background()))
	assert.True(t, c.IsSubmitted())
}

func TestLeadCapture_FlagPersistFailureIsIgnored(t *testing.T) {
	store := &mocks.LeadStore{}
	prefs := newPrefs(false)
	prefs.On("Set", mock.Anything, model.LeadSubmittedKey, "true").Return(errors.New("read-only file system"))
	store.On("Upsert", mock.Anything, mock.Anything).Return(model.Lead{}, nil)

	c := NewLeadCapture(context.Background(), store, prefs, "", testutil.MakeNoopLogger())
	c.SetEmail("user@example.com")

	require.NoError(t, c.Submit(context.Background()))
	assert.True(t, c.IsSubmitted())
}

func TestLeadCapture_PanicSurfacesGenericError(t *testing.T) {
	store := &mocks.LeadStore{}
	prefs := newPrefs(false)
	store.On("Upsert", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("nil pointer in driver")
	})

	c := NewLeadCapture(context.Background(), store, prefs, "", testutil.MakeNoopLogger())
	c.SetEmail("user@example.com")

	err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, unexpectedErrorMessage, c.Error())
	assert.False(t, c.IsSubmitted())
	assert.False(t, c.IsSubmitting())
}

func TestLeadCapture_RestoresSubmittedFlag(t *testing.T) {
	c := NewLeadCapture(context.Background(), &mocks.LeadStore{}, newPrefs(true), "", testutil.MakeNoopLogger())
	assert.True(t, c.IsSubmitted())
}

func TestLeadCapture_UnreadableFlagDefaultsToFalse(t *testing.T) {
	prefs := &mocks.PreferenceStore{}
	prefs.On("Get", mock.Anything, model.LeadSubmittedKey).Return("", false, errors.New("disk I/O error"))

	c := NewLeadCapture(context.Background(), &mocks.LeadStore{}, prefs, "", testutil.MakeNoopLogger())
	assert.False(t, c.IsSubmitted())
}

func TestLeadCapture_SubmitTwiceSameEmail(t *testing.T) {
	store := &mocks.LeadStore{}
	prefs := newPrefs(false)
	prefs.On("Set", mock.Anything, model.LeadSubmittedKey, "true").Return(nil)
	store.On("Upsert", mock.Anything, mock.MatchedBy(func(l model.Lead) bool {
		return l.Email == "user@example.com"
	})).Return(model.Lead{}, nil).Twice()

	c := NewLeadCapture(context.Background(), store, prefs, "", testutil.MakeNoopLogger())
	c.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	for i := 0; i < 2; i++ {
		c.SetEmail("user@example.com")
		require.NoError(t, c.Submit(context.Background()))
	}

	assert.True(t, c.IsSubmitted())
	store.AssertExpectations(t)
}

func TestLeadCapture_SetEmailClearsError(t *testing.T) {
	c := NewLeadCapture(context.Background(), &mocks.LeadStore{}, newPrefs(false), "", testutil.MakeNoopLogger())
	c.SetEmail("bad")
	require.Error(t, c.Submit(context.Background()))
	require.NotEmpty(t, c.Error())

	c.SetEmail("better@example.com")
	assert.Empty(t, c.Error())
}

func TestLeadCapture_KeepsDraftEnteredDuringSubmit(t *testing.T) {
	store := &mocks.LeadStore{}
	prefs := newPrefs(false)
	prefs.On("Set", mock.Anything, model.LeadSubmittedKey, "true").Return(nil)

	c := NewLeadCapture(context.Background(), store, prefs, "", testutil.MakeNoopLogger())
	store.On("Upsert", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { c.SetEmail("second@example.com") }).
		Return(model.Lead{Email: "first@example.com"}, nil)

	c.SetEmail("first@example.com")
	require.NoError(t, c.Submit(context.Background()))

	assert.True(t, c.IsSubmitted())
	assert.Equal(t, "second@example.com", c.Email())
	store.AssertExpectations(t)
}
