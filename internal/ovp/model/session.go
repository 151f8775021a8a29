// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import "errors"

// StartWidgetSessionResponse carries an anonymous session token (KS).
type StartWidgetSessionResponse struct {
	KS        string     `json:"ks"`
	PartnerID FlexInt64  `json:"partnerId"`
	UserID    FlexString `json:"userId"`
}

func (*StartWidgetSessionResponse) Kind() Kind { return KindStartWidgetSession }

func matchStartWidgetSession(f Fragment) bool {
	m, ok := asMap(f)
	return ok && hasString(m, "ks")
}

func buildStartWidgetSession(_ *Mapper, f Fragment) (Object, error) {
	var s StartWidgetSessionResponse
	if err := decodeInto(f, &s); err != nil {
		return nil, err
	}
	if s.KS == "" {
		return nil, errors.New("session: empty ks")
	}
	return &s, nil
}
