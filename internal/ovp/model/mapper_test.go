// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) Fragment {
	t.Helper()
	f, err := DecodeBody(strings.NewReader(body))
	require.NoError(t, err)
	return f
}

func TestDecodeBody_RejectsTrailingData(t *testing.T) {
	f, err := DecodeBody(strings.NewReader("[1]\n\t "))
	require.NoError(t, err)
	assert.Len(t, f, 1)

	for _, body := range []string{`[1]garbage`, `{"ks":"a"}{"ks":"b"}`, `[1] ]`} {
		_, err := DecodeBody(strings.NewReader(body))
		assert.ErrorIs(t, err, ErrTrailingData, body)
	}
	_, err = DecodeBody(strings.NewReader(`[1`))
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Kind
		ok   bool
	}{
		{"api exception", `{"objectType":"KalturaAPIException","code":"ENTRY_ID_NOT_FOUND","message":"Entry id \"0_x\" not found"}`, KindAPIError, true},
		{"api error by shape", `{"code":"INVALID_KS","message":"Invalid KS"}`, KindAPIError, true},
		{"list", `{"objectType":"KalturaBaseEntryListResponse","objects":[],"totalCount":0}`, KindList, true},
		{"playback context", `{"objectType":"KalturaPlaybackContext","sources":[]}`, KindPlaybackContext, true},
		{"playback context by shape", `{"sources":[],"actions":[]}`, KindPlaybackContext, true},
		{"widget session", `{"objectType":"KalturaStartWidgetSessionResponse","ks":"djJ8MTIz","partnerId":123}`, KindStartWidgetSession, true},
		{"metadata", `{"objectType":"KalturaMetadata","id":5,"xml":"<metadata/>"}`, KindMetadata, true},
		{"entry", `{"objectType":"KalturaMediaEntry","id":"0_abc","name":"clip"}`, KindEntry, true},
		{"entry by shape", `{"id":"0_abc","duration":12}`, KindEntry, true},
		{"sources without context fields", `{"sources":[]}`, "", false},
		{"bare id", `{"id":"0_abc"}`, "", false},
		{"scalar", `42`, "", false},
		{"array", `[1,2]`, "", false},
		{"null", `null`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := Classify(decode(t, tt.body))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestParseReturnsMatchingVariant(t *testing.T) {
	f := decode(t, `{"objectType":"KalturaMediaEntry","id":"0_abc","name":"clip","duration":"61","tags":"a,b","mediaType":1}`)
	obj := Parse(f)
	require.NotNil(t, obj)
	entry, ok := obj.(*Entry)
	require.True(t, ok, "got %T", obj)
	assert.Equal(t, "0_abc", entry.ID)
	assert.Equal(t, "clip", entry.Name)
	assert.EqualValues(t, 61, entry.Duration)
	assert.EqualValues(t, 1, entry.MediaType)
	assert.Equal(t, 61.0, entry.Seconds())

	assert.Nil(t, Parse(decode(t, `{"foo":"bar"}`)))
}

func TestParseMalformedFieldYieldsNil(t *testing.T) {
	// duration is an object, which no entry field accepts
	f := decode(t, `{"id":"0_abc","duration":{"x":1}}`)
	kind, ok := Classify(f)
	require.True(t, ok)
	assert.Equal(t, KindEntry, kind)
	assert.Nil(t, Parse(f))
}

func TestParseIsIdempotent(t *testing.T) {
	f := decode(t, `{"objectType":"KalturaPlaybackContext",
		"sources":[{"deliveryProfileId":12,"format":"applehttp","protocols":"http,https","flavorIds":"0_a,0_b",
			"drm":[{"scheme":"drm.WIDEVINE_CENC","licenseURL":"https://lic"}]}],
		"actions":[{"type":"1"}],"messages":[{"code":"COUNTRY_RESTRICTED","message":"nope"}]}`)
	first := Parse(f)
	second := Parse(f)
	require.NotNil(t, first)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("parse not idempotent (-first +second):\n%s", diff)
	}
}

func TestParseAllKeepsPositions(t *testing.T) {
	raw := decode(t, `[
		{"ks":"djJ8MTIz"},
		{"unknown":true},
		{"objects":[{"id":"0_a","name":"a"}]},
		"scalar",
		{"code":"X","message":"boom"}
	]`)
	out := ParseAll(raw)
	require.Len(t, out, 5)
	assert.IsType(t, &StartWidgetSessionResponse{}, out[0])
	assert.Nil(t, out[1])
	assert.IsType(t, &List{}, out[2])
	assert.Nil(t, out[3])
	assert.IsType(t, &APIError{}, out[4])

	// each slot derives only from its own element
	single := Parse(raw.([]any)[2])
	if diff := cmp.Diff(single, out[2]); diff != "" {
		t.Fatalf("slot 2 differs from standalone parse:\n%s", diff)
	}
}

func TestParseAllNonArray(t *testing.T) {
	assert.Empty(t, ParseAll(decode(t, `{"ks":"abc"}`)))
	assert.Empty(t, ParseAll(nil))
}

func TestParseFirst(t *testing.T) {
	obj := ParseFirst(decode(t, `[{"ks":"abcdef"},{"ks":"other"}]`))
	require.IsType(t, &StartWidgetSessionResponse{}, obj)
	assert.Equal(t, "abcdef", obj.(*StartWidgetSessionResponse).KS)

	obj = ParseFirst(decode(t, `{"ks":"single"}`))
	require.IsType(t, &StartWidgetSessionResponse{}, obj)
	assert.Equal(t, "single", obj.(*StartWidgetSessionResponse).KS)

	assert.Nil(t, ParseFirst(decode(t, `[]`)))
}

func TestListDropsUnparseableAndKeepsOrder(t *testing.T) {
	obj := Parse(decode(t, `{"objects":[
		{"id":"0_a","name":"first"},
		{"nothing":"here"},
		{"id":5,"xml":"<metadata><title>x</title></metadata>"},
		{"id":"0_b","name":"second"}
	],"totalCount":"4"}`))
	list, ok := obj.(*List)
	require.True(t, ok)
	require.Len(t, list.Objects, 3)
	assert.EqualValues(t, 4, list.TotalCount)

	entries := list.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Name)
	assert.Equal(t, "second", list.LastEntry().Name)

	md := list.Metadata()
	require.Len(t, md, 1)
	assert.Equal(t, FlexString("5"), md[0].ID)

	empty := &List{}
	assert.Nil(t, empty.LastEntry())
}

func TestRegisterCustomRule(t *testing.T) {
	m := NewMapper(DefaultRules()...)
	m.Register(Rule{
		Kind:     "flavorAsset",
		Priority: 5,
		Match: func(f Fragment) bool {
			mm, ok := asMap(f)
			return ok && objectType(mm) == "KalturaFlavorAsset"
		},
		Build: func(_ *Mapper, _ Fragment) (Object, error) {
			return &List{}, nil
		},
	})
	kind, ok := m.Classify(decode(t, `{"objectType":"KalturaFlavorAsset","id":"0_f","name":"x"}`))
	require.True(t, ok)
	assert.Equal(t, Kind("flavorAsset"), kind)

	// built-in rules are untouched
	kind, ok = m.Classify(decode(t, `{"id":"0_e","name":"x"}`))
	require.True(t, ok)
	assert.Equal(t, KindEntry, kind)

	// rules without predicate or constructor are ignored
	m.Register(Rule{Kind: "broken"})
	assert.Len(t, m.snapshot(), len(DefaultRules())+1)
}

func TestPlaybackContextHelpers(t *testing.T) {
	obj := Parse(decode(t, `{"objectType":"KalturaPlaybackContext","sources":[
		{"deliveryProfileId":"7","format":"mpegdash","protocols":["http","https"],"flavorIds":"0_a, 0_b"}],
		"actions":[{"type":2},{"type":"BLOCK"}],
		"messages":[{"code":"","message":""},{"code":"SCHEDULED_RESTRICTED","message":"Not yet"}]}`))
	ctx, ok := obj.(*PlaybackContext)
	require.True(t, ok)

	require.Len(t, ctx.Sources, 1)
	src := ctx.Sources[0]
	assert.Equal(t, FlexString("7"), src.DeliveryProfileID)
	assert.Equal(t, CSV{"0_a", "0_b"}, src.FlavorIDs)
	assert.Equal(t, "https", src.PreferredProtocol())
	assert.False(t, src.HasDRM())

	_, blocked := ctx.BlockAction()
	assert.True(t, blocked)
	msg, ok := ctx.ErrorMessage()
	require.True(t, ok)
	assert.Equal(t, "SCHEDULED_RESTRICTED", msg.Code)
	assert.Equal(t, "Not yet", msg.Message)

	open := &PlaybackContext{Actions: []RuleAction{{Type: "2"}}}
	_, blocked = open.BlockAction()
	assert.False(t, blocked)
	_, ok = open.ErrorMessage()
	assert.False(t, ok)
}

func TestAPIErrorIsError(t *testing.T) {
	obj := Parse(decode(t, `{"objectType":"KalturaAPIException","code":"SERVICE_FORBIDDEN","message":"forbidden"}`))
	apiErr, ok := obj.(*APIError)
	require.True(t, ok)
	assert.EqualError(t, apiErr, "ovp api error SERVICE_FORBIDDEN: forbidden")
}

func TestWidgetSessionRequiresKS(t *testing.T) {
	assert.Nil(t, Parse(decode(t, `{"ks":""}`)))
	obj := Parse(decode(t, `{"ks":"djJ8","partnerId":"2222","userId":0}`))
	s, ok := obj.(*StartWidgetSessionResponse)
	require.True(t, ok)
	assert.EqualValues(t, 2222, s.PartnerID)
	assert.Equal(t, FlexString("0"), s.UserID)
}
