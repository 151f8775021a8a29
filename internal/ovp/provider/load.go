// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package provider

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	xglog "github.com/ManuGH/ovpmedia/internal/log"
	"github.com/ManuGH/ovpmedia/internal/metrics"
	"github.com/ManuGH/ovpmedia/internal/ovp/model"
	"github.com/ManuGH/ovpmedia/internal/ovp/request"
	"github.com/ManuGH/ovpmedia/internal/ovp/source"
	"github.com/ManuGH/ovpmedia/internal/telemetry"
)

// load is the state of one LoadMedia call. Completion hooks close over it;
// nothing is stored on the Provider.
type load struct {
	ctx    context.Context
	p      *Provider
	cfg    Config
	state  State
	logger zerolog.Logger
	span   trace.Span
	start  time.Time

	// ks is the token used for manifest URLs: the configured one, or the
	// one returned by the bootstrap call.
	ks        string
	bootstrap bool
	// sessionBad marks a bootstrap slot that failed or held no token;
	// sessionErr is its cause when one is known.
	sessionBad bool
	sessionErr error

	entryReq    *request.Builder
	contextReq  *request.Builder
	metadataReq *request.Builder

	once    sync.Once
	cb      Callback
	release func()
}

func newLoad(ctx context.Context, p *Provider, cb Callback, release func()) *load {
	loadID := uuid.NewString()
	ctx = xglog.ContextWithLoadID(ctx, loadID)
	ctx, span := telemetry.Tracer("ovpmedia.provider").Start(ctx, "ovpmedia.provider.load")
	logger := xglog.WithContext(ctx, xglog.WithComponent("ovp.provider")).With().
		Str(xglog.FieldEntryID, p.cfg.entryID).
		Int64(xglog.FieldPartnerID, p.cfg.partnerID).
		Logger()
	return &load{
		ctx:     ctx,
		p:       p,
		cfg:     p.cfg,
		state:   StateIdle,
		logger:  logger,
		span:    span,
		start:   time.Now(),
		cb:      cb,
		release: release,
	}
}

func (l *load) transition(to State) {
	if !CanTransition(l.state, to) {
		l.logger.Error().
			Str(xglog.FieldEvent, "ovp.load.bad_transition").
			Str(xglog.FieldOldState, string(l.state)).
			Str(xglog.FieldNewState, string(to)).
			Msg("unexpected load state transition")
	}
	l.logger.Debug().
		Str(xglog.FieldEvent, "ovp.load.state").
		Str(xglog.FieldOldState, string(l.state)).
		Str(xglog.FieldNewState, string(to)).
		Msg("load state changed")
	l.state = to
}

func (l *load) run() {
	l.transition(StateValidating)
	if err := l.cfg.validate(); err != nil {
		l.fail(err)
		return
	}

	api := l.cfg.APIBaseURL()
	mb := request.NewMulti(api).SetBasicParams()

	ks := l.cfg.ks
	l.ks = ks
	if ks == "" {
		l.transition(StateBootstrapping)
		l.bootstrap = true
		session := request.StartWidgetSession(api, l.cfg.partnerID).SetCompletion(l.onSession)
		mb.Add(session)
		ks = request.ResultRef(session.Index(), "ks")
	}
	l.span.SetAttributes(telemetry.EntryAttributes(l.cfg.entryID, l.cfg.partnerID, l.bootstrap)...)

	l.transition(StateBatching)
	l.entryReq = request.ListEntry(api, ks, l.cfg.entryID)
	l.contextReq = request.GetPlaybackContext(api, ks, l.cfg.entryID, l.cfg.referrer)
	l.metadataReq = request.ListMetadata(api, ks, l.cfg.entryID)
	mb.Add(l.entryReq, l.contextReq, l.metadataReq).SetCompletion(l.onBatch)

	req, err := mb.Build(coreRequests)
	if err != nil {
		l.fail(InvalidParams(err))
		return
	}
	metrics.ObserveBatchSize(mb.Len())

	l.transition(StateAwaitingResponse)
	l.logger.Debug().
		Str(xglog.FieldEvent, "ovp.load.send").
		Int(xglog.FieldBatchSize, mb.Len()).
		Bool("bootstrap", l.bootstrap).
		Str(xglog.FieldKS, xglog.MaskToken(l.cfg.ks)).
		Msg("sending multirequest")
	l.p.executor.Send(l.ctx, req)
}

// onSession records the real token behind the bootstrap placeholder.
func (l *load) onSession(resp request.Response) {
	if resp.Err != nil {
		l.sessionBad, l.sessionErr = true, resp.Err
		return
	}
	obj := l.p.mapper.Parse(resp.Body)
	if s, ok := obj.(*model.StartWidgetSessionResponse); ok && s.KS != "" {
		l.ks = s.KS
		return
	}
	l.sessionBad = true
	if apiErr, ok := obj.(*model.APIError); ok {
		l.sessionErr = apiErr
	}
	l.logger.Warn().
		Str(xglog.FieldEvent, "ovp.load.session_missing").
		Msg("bootstrap slot carried no session token")
}

func (l *load) onBatch(resp request.Response) {
	l.transition(StateReconciling)
	if resp.Err != nil {
		l.fail(InvalidResponse(resp.Err))
		return
	}
	entry, err := l.reconcile(l.p.mapper.ParseAll(resp.Body))
	if err != nil {
		l.fail(err)
		return
	}
	l.succeed(entry)
}

func (l *load) slot(objs []model.Object, b *request.Builder) model.Object {
	i := b.Index() - 1
	if i < 0 || i >= len(objs) {
		return nil
	}
	return objs[i]
}

func (l *load) reconcile(objs []model.Object) (*MediaEntry, *Error) {
	if l.bootstrap && l.sessionBad {
		return nil, InvalidKS(l.sessionErr)
	}

	entrySlot := l.slot(objs, l.entryReq)
	contextSlot := l.slot(objs, l.contextReq)
	metadataSlot := l.slot(objs, l.metadataReq)

	var entry *model.Entry
	if list, ok := entrySlot.(*model.List); ok {
		entry = list.LastEntry()
	}
	pc, _ := contextSlot.(*model.PlaybackContext)
	if pc != nil && pc.Sources == nil {
		pc = nil
	}
	mdList, _ := metadataSlot.(*model.List)

	if entry == nil || pc == nil || mdList == nil {
		var cause error
		for _, obj := range []model.Object{entrySlot, contextSlot, metadataSlot} {
			if apiErr, ok := obj.(*model.APIError); ok {
				cause = apiErr
				break
			}
		}
		l.logger.Debug().
			Str(xglog.FieldEvent, "ovp.load.incomplete").
			Bool("has_entry", entry != nil).
			Bool("has_context", pc != nil).
			Bool("has_metadata", mdList != nil).
			Msg("response is not containing entry info or playback data")
		return nil, InvalidResponse(cause)
	}

	if _, blocked := pc.BlockAction(); blocked {
		if msg, ok := pc.ErrorMessage(); ok {
			return nil, ServerError(msg.Code, msg.Message)
		}
		return nil, ServerError("Blocked", "Blocked")
	}

	resolved := l.p.resolver.Resolve(l.ctx, source.Input{
		Sources:   pc.Sources,
		BaseURL:   l.cfg.baseURL,
		PartnerID: l.cfg.partnerID,
		UIConfID:  l.cfg.uiConfID,
		EntryID:   entry.ID,
		KS:        l.ks,
		Referrer:  l.cfg.referrer,
	})
	sources := make([]MediaSource, 0, len(resolved))
	for _, r := range resolved {
		sources = append(sources, MediaSource{
			ID:          r.ID,
			ContentURL:  r.URL,
			MediaFormat: r.Format,
			DRMData:     r.DRM,
		})
	}

	return &MediaEntry{
		ID:        entry.ID,
		Name:      entry.Name,
		Duration:  entry.Seconds(),
		Tags:      entry.Tags,
		MediaType: int64(entry.MediaType),
		Sources:   sources,
		Metadata:  l.p.flattener.Flatten(l.ctx, mdList.Metadata()),
	}, nil
}

func (l *load) succeed(entry *MediaEntry) {
	l.once.Do(func() {
		l.transition(StateDone)
		l.span.SetAttributes(attribute.Int(telemetry.SourcesKey, len(entry.Sources)))
		l.span.SetStatus(codes.Ok, "")
		l.finish("ok")
		l.logger.Info().
			Str(xglog.FieldEvent, "ovp.load.done").
			Int("sources", len(entry.Sources)).
			Dur("duration", time.Since(l.start)).
			Msg("media entry loaded")
		l.cb(entry, nil)
	})
}

func (l *load) fail(err *Error) {
	l.once.Do(func() {
		l.transition(StateFailed)
		l.span.RecordError(err)
		l.span.SetAttributes(telemetry.ErrorAttributes(err.Code.String())...)
		l.span.SetStatus(codes.Error, err.Message())
		l.finish(err.Code.String())

		event := l.logger.Warn()
		if errors.Is(err, context.Canceled) {
			event = l.logger.Info()
		}
		event.Err(err).
			Str(xglog.FieldEvent, "ovp.load.failed").
			Str("error_code", err.Code.String()).
			Dur("duration", time.Since(l.start)).
			Msg("media load failed")
		l.cb(nil, err)
	})
}

func (l *load) finish(result string) {
	metrics.RecordLoad(result, time.Since(l.start))
	l.span.End()
	if l.release != nil {
		l.release()
	}
}
