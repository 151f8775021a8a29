// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package request

import "strconv"

// entryResponseFields limits baseEntry.list replies to what playback needs.
const entryResponseFields = "id,name,dataUrl,duration,msDuration,flavorParamsIds,mediaType,type,tags"

// StartWidgetSession opens an anonymous session for a partner.
func StartWidgetSession(apiBaseURL string, partnerID int64) *Builder {
	return New(apiBaseURL, "session", "startWidgetSession").
		Set("widgetId", "_"+strconv.FormatInt(partnerID, 10))
}

// ListEntry looks up one entry, following redirects to a replacement entry.
func ListEntry(apiBaseURL, ks, entryID string) *Builder {
	return New(apiBaseURL, "baseEntry", "list").
		Set("ks", ks).
		Set("filter", map[string]any{"redirectFromEntryId": entryID}).
		Set("responseProfile", map[string]any{
			"fields": entryResponseFields,
			"type":   1,
		})
}

// GetPlaybackContext fetches sources, DRM data and access-control actions.
func GetPlaybackContext(apiBaseURL, ks, entryID, referrer string) *Builder {
	params := map[string]any{
		"objectType": "KalturaContextDataParams",
		"flavorTags": "all",
	}
	if referrer != "" {
		params["referrer"] = referrer
	}
	return New(apiBaseURL, "baseEntry", "getPlaybackContext").
		Set("ks", ks).
		Set("entryId", entryID).
		Set("contextDataParams", params)
}

// ListMetadata lists the custom-metadata documents attached to an entry.
func ListMetadata(apiBaseURL, ks, entryID string) *Builder {
	return New(apiBaseURL, "metadata_metadata", "list").
		Set("ks", ks).
		Set("filter", map[string]any{
			"objectType":              "KalturaMetadataFilter",
			"objectIdEqual":           entryID,
			"metadataObjectTypeEqual": "1",
		})
}
