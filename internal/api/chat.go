// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Chat session operations, including the streaming exchange.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/jeranaias/garagehub-tui/internal/model"
)

// =============================================================================
// SESSION LIFECYCLE
// =============================================================================

// createSessionRequest keys a new session to a complaint.
type createSessionRequest struct {
	ComplaintID int64 `json:"complaint_id"`
}

// CloseResult is the close endpoint's envelope.
type CloseResult struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Session model.ChatSession `json:"session"`
}

// CreateChatSession starts a chat session scoped to a complaint. The
// backend seeds the session with an assistant greeting.
func (c *Client) CreateChatSession(ctx context.Context, complaintID int64) (*model.ChatSession, error) {
	var session model.ChatSession
	if err := c.post(ctx, c.apiURL("/chat/sessions/"), createSessionRequest{ComplaintID: complaintID}, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetChatSession fetches a session with its message history.
func (c *Client) GetChatSession(ctx context.Context, sessionID int64) (*model.ChatSession, error) {
	var session model.ChatSession
	if err := c.get(ctx, c.sessionURL(sessionID, ""), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CloseChatSession closes a session. Callers treat this as best-effort:
// client-side session state is cleared whether or not the call succeeds.
func (c *Client) CloseChatSession(ctx context.Context, sessionID int64) (*model.ChatSession, error) {
	var result CloseResult
	if err := c.post(ctx, c.sessionURL(sessionID, "close"), nil, &result); err != nil {
		return nil, err
	}
	return &result.Session, nil
}

// ReopenChatSession reopens a previously closed session.
func (c *Client) ReopenChatSession(ctx context.Context, sessionID int64) (*model.ChatSession, error) {
	var result CloseResult
	if err := c.post(ctx, c.sessionURL(sessionID, "reopen"), nil, &result); err != nil {
		return nil, err
	}
	return &result.Session, nil
}

// sessionURL builds a session endpoint, optionally with an action.
func (c *Client) sessionURL(sessionID int64, action string) string {
	base := "/chat/sessions/" + strconv.FormatInt(sessionID, 10) + "/"
	if action != "" {
		base += action + "/"
	}
	return c.apiURL(base)
}

// =============================================================================
// STREAMING SEND
// =============================================================================

// sendMessageRequest carries the user's message.
type sendMessageRequest struct {
	Message string `json:"message"`
}

// SendMessage posts a message to a session and consumes the chunked
// text response. The callback (if non-nil) is invoked synchronously for
// each decoded chunk, in order, before the next read; a slow callback
// delays the read loop. On any failure the partial text is discarded
// and only the error is returned.
//
// Returns the complete reply wrapped as an assistant message.
func (c *Client) SendMessage(ctx context.Context, sessionID int64, message string, callback StreamCallback) (*model.Message, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, &ClientError{Type: ErrTypeValidation, Message: "Message cannot be empty"}
	}

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(sendMessageRequest{Message: message})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeDecode, Message: "failed to marshal request", Cause: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.sessionURL(sessionID, "send_message"), body, nil)
	if err != nil {
		return nil, err
	}

	// The reply streams for as long as the mechanic talks; the shared
	// client's timeout would cut it off. Cancellation comes from ctx.
	streamClient := &http.Client{}

	resp, err := streamClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, ErrTimeout
		}
		return nil, &ClientError{Type: ErrTypeConnection, Message: ErrBackendUnavailable.Message, Cause: err}
	}
	defer resp.Body.Close()

	// Short-circuit before touching the stream on a failed status.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, normalizeStreamError(resp)
	}

	reader := NewStreamReader(resp.Body)
	if err := reader.Process(ctx, callback); err != nil {
		return nil, err
	}

	return model.NewMessage(model.RoleAssistant, reader.GetAccumulated()), nil
}

// normalizeStreamError maps a failed send_message status to a typed
// error. This endpoint reports failures as {"error": ...} rather than
// the message envelope the JSON endpoints use.
func normalizeStreamError(resp *http.Response) *ClientError {
	var body errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err == nil && body.Error != "" {
		if strings.Contains(body.Error, "closed") {
			return &ClientError{Type: ErrTypeSessionClosed, Message: body.Error}
		}
		return &ClientError{Type: ErrTypeHTTP, Message: body.Error}
	}
	return &ClientError{Type: ErrTypeHTTP, Message: GenericFailure}
}
