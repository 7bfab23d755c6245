// Package service carries the use cases over the repositories: listing and
// editing boards and cards, moving cards, and migrating legacy boards.
// Authorization is checked here, before anything is published.
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kanbanstr/board-sync-service/internal/codec"
	"github.com/kanbanstr/board-sync-service/internal/domain"
	"github.com/kanbanstr/board-sync-service/internal/nostr"
	"github.com/kanbanstr/board-sync-service/pkg/code"
	"github.com/kanbanstr/board-sync-service/pkg/workerpool"
)

// Options bundles the dependencies every service shares.
type Options struct {
	Client     nostr.Client
	Boards     domain.BoardRepository
	Cards      domain.CardRepository
	Projection *Projection
	Logger     *zap.Logger
}

// currentUser resolves the acting identity or the read-only error code.
func currentUser(client nostr.Client) (string, error) {
	me, err := client.CurrentUser()
	if err != nil {
		return "", code.ErrorReadOnly.Clone()
	}
	return me, nil
}

// asCodeError maps repository errors onto API error codes, keeping details.
func asCodeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return code.ErrorNotFound.Clone().WithDetails(err.Error())
	}
	if errors.Is(err, nostr.ErrReadOnly) {
		return code.ErrorReadOnly.Clone()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return code.ErrorRequestTimeout.Clone().WithDetails(err.Error())
	}
	if errors.Is(err, workerpool.ErrWorkerPoolFull) {
		return code.ErrorServerBusy.Clone()
	}
	var de *codec.DecodeError
	if errors.As(err, &de) {
		return code.ErrorDecodeFailed.Clone().WithDetails(de.Error())
	}
	var c *code.Code
	if errors.As(err, &c) {
		return c
	}
	return code.ErrorTransport.Clone().WithDetails(err.Error())
}

func parseScope(s string) domain.BoardScope {
	switch s {
	case "mine":
		return domain.ScopeOwned
	case "maintained":
		return domain.ScopeMaintained
	default:
		return domain.ScopeAll
	}
}
