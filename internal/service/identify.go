package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"sync"

	"github.com/franknunes1612/saralucasacademy-sub002/internal/logger"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/model"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/timing"
)

// IdentifyState is the lifecycle of a CarIdentifier.
type IdentifyState string

const (
	IdentifyIdle    IdentifyState = "idle"
	IdentifyLoading IdentifyState = "loading"
	IdentifySuccess IdentifyState = "success"
	IdentifyError   IdentifyState = "error"
)

const identifyFailedMessage = "Could not identify the car. Please try again."

// CarIdentifier holds the latest identification attempt.
// A response that arrives after Reset or after a newer Identify call is discarded.
type CarIdentifier struct {
	mu      sync.Mutex
	client  model.Identifier
	archive model.Storage
	logger  *logger.Logger

	seq    uint64
	state  IdentifyState
	result *model.CarIdentification
	errMsg string
}

// NewCarIdentifier creates an identifier. archive may be nil.
func NewCarIdentifier(client model.Identifier, archive model.Storage, logger *logger.Logger) *CarIdentifier {
	return &CarIdentifier{
		client:  client,
		archive: archive,
		logger:  logger,
		state:   IdentifyIdle,
	}
}

// IdentifyImage encodes raw image bytes and identifies them.
func (c *CarIdentifier) IdentifyImage(ctx context.Context, image []byte, scan *timing.Session) *model.CarIdentification {
	if scan == nil {
		scan = timing.NewSession("identify")
	}
	var encoded string
	scan.Measure("encode", func() {
		encoded = base64.StdEncoding.EncodeToString(image)
	})
	return c.Identify(ctx, encoded, scan)
}

// Identify sends one base64 image. It returns nil on failure; Error then holds a user-facing message.
func (c *CarIdentifier) Identify(ctx context.Context, imageBase64 string, scan *timing.Session) *model.CarIdentification {
	if scan == nil {
		scan = timing.NewSession("identify")
	}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state = IdentifyLoading
	c.errMsg = ""
	c.mu.Unlock()

	if c.archive != nil {
		scan.Measure("archive", func() {
			c.archiveImage(ctx, imageBase64)
		})
	}

	var res model.Result[model.CarIdentification]
	scan.Measure("identify", func() {
		res = c.client.Identify(ctx, imageBase64)
	})
	scan.Log(c.logger)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		c.logger.Debug("Identify service: discarding stale response", "seq", seq)
		if res.IsOk() {
			v := res.Value()
			return &v
		}
		return nil
	}

	if !res.IsOk() {
		remoteErr := res.Err()
		c.logger.Error("Identify service: identification failed",
			"kind", string(remoteErr.Kind),
			"error", remoteErr.Error())
		c.state = IdentifyError
		c.result = nil
		c.errMsg = userMessage(remoteErr)
		return nil
	}

	v := res.Value()
	c.state = IdentifySuccess
	c.result = &v
	c.logger.Info("Identify service: car identified",
		"confidence", confidenceLabel(v.Confidence))
	return &v
}

func (c *CarIdentifier) archiveImage(ctx context.Context, imageBase64 string) {
	raw, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		c.logger.Warn("Identify service: skipping archive of undecodable image",
			"error", err.Error())
		return
	}

	key := ScanKey(raw)
	exists, err := c.archive.Exists(ctx, key)
	if err != nil {
		c.logger.Warn("Identify service: failed to check scan archive",
			"key", key,
			"error", err.Error())
		return
	}
	if exists {
		return
	}

	if err := c.archive.Upload(ctx, key, bytes.NewReader(raw), int64(len(raw)), http.DetectContentType(raw)); err != nil {
		c.logger.Warn("Identify service: failed to archive scan",
			"key", key,
			"error", err.Error())
		return
	}
	c.logger.Debug("Identify service: scan archived", "key", key)
}

// Reset clears the result and error and returns to idle.
func (c *CarIdentifier) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.state = IdentifyIdle
	c.result = nil
	c.errMsg = ""
}

func (c *CarIdentifier) State() IdentifyState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *CarIdentifier) IsLoading() bool {
	return c.State() == IdentifyLoading
}

func (c *CarIdentifier) Result() *model.CarIdentification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

func (c *CarIdentifier) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// ScanKey is the content-addressed archive key of an image.
func ScanKey(raw []byte) string {
	sum := sha256.Sum256(raw)
	ext := ".jpg"
	switch http.DetectContentType(raw) {
	case "image/png":
		ext = ".png"
	case "image/webp":
		ext = ".webp"
	}
	return "scans/" + hex.EncodeToString(sum[:]) + ext
}

func userMessage(err *model.RemoteError) string {
	switch err.Kind {
	case model.KindRemote, model.KindValidation:
		if err.Message != "" {
			return err.Message
		}
	}
	return identifyFailedMessage
}

func confidenceLabel(c *model.Confidence) string {
	if c == nil {
		return "unknown"
	}
	return string(*c)
}
