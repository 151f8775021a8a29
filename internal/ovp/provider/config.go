// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package provider

import (
	"strings"

	"github.com/ManuGH/ovpmedia/internal/ovp/metadata"
	"github.com/ManuGH/ovpmedia/internal/ovp/request"
	"github.com/ManuGH/ovpmedia/internal/ovp/source"
)

// Config is an immutable provider configuration. Build it with
// ConfigBuilder; it is validated when a load starts.
type Config struct {
	baseURL    string
	ks         string
	partnerID  int64
	entryID    string
	uiConfID   int64
	referrer   string
	executor   request.Executor
	urlBuilder source.URLBuilder
	docParser  metadata.DocumentParser
}

func (c Config) BaseURL() string            { return c.baseURL }
func (c Config) KS() string                 { return c.ks }
func (c Config) PartnerID() int64           { return c.partnerID }
func (c Config) EntryID() string            { return c.entryID }
func (c Config) UIConfID() int64            { return c.uiConfID }
func (c Config) Referrer() string           { return c.referrer }
func (c Config) Executor() request.Executor { return c.executor }

// APIBaseURL is <baseURL>/api_v3.
func (c Config) APIBaseURL() string {
	if strings.HasSuffix(c.baseURL, "/") {
		return c.baseURL + "api_v3"
	}
	return c.baseURL + "/api_v3"
}

// WithEntryID returns a copy addressing another entry.
func (c Config) WithEntryID(id string) Config {
	c.entryID = strings.TrimSpace(id)
	return c
}

// WithKS returns a copy using another session token.
func (c Config) WithKS(ks string) Config {
	c.ks = strings.TrimSpace(ks)
	return c
}

// ConfigBuilder assembles a Config. Setters return the builder for chaining.
type ConfigBuilder struct {
	cfg Config
}

func NewConfigBuilder() *ConfigBuilder { return &ConfigBuilder{} }

// SetBaseURL sets the backend service URL, e.g. https://cdnapisec.example.com.
func (b *ConfigBuilder) SetBaseURL(u string) *ConfigBuilder {
	b.cfg.baseURL = strings.TrimSpace(u)
	return b
}

// SetKS sets the session token. Without one, an anonymous widget session
// is opened as part of the batch.
func (b *ConfigBuilder) SetKS(ks string) *ConfigBuilder {
	b.cfg.ks = strings.TrimSpace(ks)
	return b
}

func (b *ConfigBuilder) SetPartnerID(id int64) *ConfigBuilder {
	b.cfg.partnerID = id
	return b
}

func (b *ConfigBuilder) SetEntryID(id string) *ConfigBuilder {
	b.cfg.entryID = strings.TrimSpace(id)
	return b
}

func (b *ConfigBuilder) SetUIConfID(id int64) *ConfigBuilder {
	b.cfg.uiConfID = id
	return b
}

func (b *ConfigBuilder) SetReferrer(r string) *ConfigBuilder {
	b.cfg.referrer = r
	return b
}

// SetExecutor replaces the shared HTTP executor.
func (b *ConfigBuilder) SetExecutor(e request.Executor) *ConfigBuilder {
	b.cfg.executor = e
	return b
}

// SetURLBuilder replaces the play-manifest URL builder.
func (b *ConfigBuilder) SetURLBuilder(u source.URLBuilder) *ConfigBuilder {
	b.cfg.urlBuilder = u
	return b
}

// SetDocumentParser replaces the metadata XML parser.
func (b *ConfigBuilder) SetDocumentParser(p metadata.DocumentParser) *ConfigBuilder {
	b.cfg.docParser = p
	return b
}

// Build returns a snapshot; later setter calls do not affect it.
func (b *ConfigBuilder) Build() Config { return b.cfg }

// validate reports the first missing required field.
func (c Config) validate() *Error {
	if c.baseURL == "" {
		return InvalidParam("baseUrl")
	}
	if c.entryID == "" {
		return InvalidParam("entryId")
	}
	if c.ks == "" && c.partnerID <= 0 {
		return InvalidParam("partnerId")
	}
	return nil
}
