// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package source

import (
	"encoding/base64"
	"net/url"
	"strconv"
	"strings"
)

// DefaultProtocol is used when a source advertises no protocol.
const DefaultProtocol = "https"

// URLParams carries everything needed to address one rendition set.
type URLParams struct {
	BaseURL   string
	PartnerID int64
	UIConfID  int64
	EntryID   string
	KS        string
	Format    string // delivery format as sent by the backend, e.g. "applehttp"
	Protocol  string
	Extension string
	FlavorIDs []string
	Referrer  string
}

// URLBuilder builds a playback URL. It reports false when the parameters are
// insufficient.
type URLBuilder interface {
	Build(p URLParams) (string, bool)
}

// URLBuilderFunc adapts a function to URLBuilder.
type URLBuilderFunc func(p URLParams) (string, bool)

func (fn URLBuilderFunc) Build(p URLParams) (string, bool) { return fn(p) }

// PlayManifestBuilder builds playManifest URLs:
//
//	<base>/p/<pid>/sp/<pid>00/playManifest/entryId/<id>/protocol/<proto>/format/<fmt>/flavorIds/<a,b>[/uiConfId/<u>][/ks/<ks>]/a.<ext>[?referrer=<b64>]
type PlayManifestBuilder struct{}

func (PlayManifestBuilder) Build(p URLParams) (string, bool) {
	base := strings.TrimRight(strings.TrimSpace(p.BaseURL), "/")
	if base == "" || p.EntryID == "" || p.PartnerID <= 0 || p.Format == "" || p.Extension == "" {
		return "", false
	}
	protocol := p.Protocol
	if protocol == "" {
		protocol = DefaultProtocol
	}
	pid := strconv.FormatInt(p.PartnerID, 10)

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("/p/" + pid + "/sp/" + pid + "00/playManifest")
	b.WriteString("/entryId/" + url.PathEscape(p.EntryID))
	b.WriteString("/protocol/" + url.PathEscape(protocol))
	b.WriteString("/format/" + url.PathEscape(p.Format))
	if len(p.FlavorIDs) > 0 {
		b.WriteString("/flavorIds/" + strings.Join(p.FlavorIDs, ","))
	}
	if p.UIConfID > 0 {
		b.WriteString("/uiConfId/" + strconv.FormatInt(p.UIConfID, 10))
	}
	if p.KS != "" {
		b.WriteString("/ks/" + url.PathEscape(p.KS))
	}
	b.WriteString("/a." + p.Extension)
	if p.Referrer != "" {
		b.WriteString("?referrer=" + url.QueryEscape(base64.StdEncoding.EncodeToString([]byte(p.Referrer))))
	}
	return b.String(), true
}
