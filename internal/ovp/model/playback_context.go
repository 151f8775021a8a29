// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import "strings"

// PlaybackContext is the delivery context of one entry (baseEntry.getPlaybackContext).
type PlaybackContext struct {
	Sources      []PlaybackSource `json:"sources"`
	FlavorAssets []FlavorAsset    `json:"flavorAssets"`
	Actions      []RuleAction     `json:"actions"`
	Messages     []AccessMessage  `json:"messages"`
}

func (*PlaybackContext) Kind() Kind { return KindPlaybackContext }

// PlaybackSource is one deliverable rendition descriptor.
type PlaybackSource struct {
	DeliveryProfileID FlexString        `json:"deliveryProfileId"`
	Format            string            `json:"format"`
	Protocols         CSV               `json:"protocols"`
	FlavorIDs         CSV               `json:"flavorIds"`
	URL               string            `json:"url"`
	DRM               []DRMPlaybackData `json:"drm"`
}

// HasDRM reports whether the source carries any DRM descriptor.
func (s PlaybackSource) HasDRM() bool { return len(s.DRM) > 0 }

// PreferredProtocol is the last advertised protocol, "" when none.
func (s PlaybackSource) PreferredProtocol() string {
	if len(s.Protocols) == 0 {
		return ""
	}
	return s.Protocols[len(s.Protocols)-1]
}

// DRMPlaybackData describes the license acquisition for one DRM scheme.
type DRMPlaybackData struct {
	Scheme      string `json:"scheme"`
	LicenseURL  string `json:"licenseURL"`
	Certificate string `json:"certificate"`
}

// FlavorAsset is one encoded rendition of the entry.
type FlavorAsset struct {
	ID             string     `json:"id"`
	FlavorParamsID FlexString `json:"flavorParamsId"`
	FileExt        string     `json:"fileExt"`
	Bitrate        FlexInt64  `json:"bitrate"`
	Width          FlexInt64  `json:"width"`
	Height         FlexInt64  `json:"height"`
}

// RuleAction is an access-control action applied by the backend.
type RuleAction struct {
	Type FlexString `json:"type"`
}

// IsBlock reports a playback refusal. The backend sends the enum value "1";
// the symbolic name is accepted as well.
func (a RuleAction) IsBlock() bool {
	t := strings.TrimSpace(string(a.Type))
	return t == "1" || strings.EqualFold(t, "block")
}

// AccessMessage explains an access-control decision.
type AccessMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BlockAction returns the first blocking action, if any.
func (c *PlaybackContext) BlockAction() (RuleAction, bool) {
	for _, a := range c.Actions {
		if a.IsBlock() {
			return a, true
		}
	}
	return RuleAction{}, false
}

// ErrorMessage returns the first message carrying a code or text.
func (c *PlaybackContext) ErrorMessage() (AccessMessage, bool) {
	for _, m := range c.Messages {
		if m.Code != "" || m.Message != "" {
			return m, true
		}
	}
	return AccessMessage{}, false
}

func matchPlaybackContext(f Fragment) bool {
	m, ok := asMap(f)
	if !ok {
		return false
	}
	if objectType(m) == "KalturaPlaybackContext" {
		return true
	}
	if !hasArray(m, "sources") {
		return false
	}
	_, actions := m["actions"]
	_, assets := m["flavorAssets"]
	_, messages := m["messages"]
	return actions || assets || messages
}

func buildPlaybackContext(_ *Mapper, f Fragment) (Object, error) {
	var c PlaybackContext
	if err := decodeInto(f, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
