// Sage - Annotation Suggestion and Evaluation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sage

package api

import (
	"net/http"

	"github.com/tomtom215/sage/internal/graph"
	"github.com/tomtom215/sage/internal/suggest"
)

// SuggestionRequest holds the parameters of an item suggestion request.
type SuggestionRequest struct {
	ContainerID int64  `validate:"gt=0"`
	Item        string `validate:"required"`
	Algorithm   string `validate:"omitempty,algorithm"`
	Limit       int    `validate:"gte=1,lte=1000"`
}

// TextSuggestionRequest holds the parameters of a free-text suggestion request.
type TextSuggestionRequest struct {
	ContainerID int64  `validate:"gt=0"`
	Text        string `validate:"required,max=4096"`
	Limit       int    `validate:"gte=1,lte=1000"`
}

// Suggestion is one ranked candidate.
type Suggestion struct {
	Item  string  `json:"item"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SuggestionResponse is the body of both suggestion endpoints.
type SuggestionResponse struct {
	ContainerID int64        `json:"container_id"`
	Item        string       `json:"item,omitempty"`
	Text        string       `json:"text,omitempty"`
	Algorithm   string       `json:"algorithm"`
	Total       int          `json:"total"`
	Suggestions []Suggestion `json:"suggestions"`
}

func toSuggestions(g *graph.Graph, res suggest.Result) []Suggestion {
	out := make([]Suggestion, len(res))
	for i, s := range res {
		out[i] = Suggestion{Item: s.Ref.String(), Label: g.Label(s.Ref), Score: s.Score}
	}
	return out
}

// Suggestions ranks candidates for one item.
//
//	GET /api/v1/containers/{id}/suggestions?item=concept:12&algorithm=VotePlus&limit=10
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := SuggestionRequest{
		ContainerID: containerIDParam(r),
		Item:        q.Get("item"),
		Algorithm:   q.Get("algorithm"),
		Limit:       intQuery(r, "limit", suggest.DefaultTopM),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}
	ref, err := graph.ParseRef(req.Item)
	if err != nil {
		respondValidation(w, r, &APIError{Code: CodeValidation, Message: err.Error()})
		return
	}

	ctx := r.Context()
	container, err := h.store.Container(ctx, req.ContainerID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	g, err := h.loadGraph(ctx, req.ContainerID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	kind := h.engine.ResolveFor(container, req.Algorithm)
	res, err := h.engine.SuggestWith(ctx, kind, g, ref)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondData(w, r, SuggestionResponse{
		ContainerID: req.ContainerID,
		Item:        ref.String(),
		Algorithm:   string(kind),
		Total:       len(res),
		Suggestions: toSuggestions(g, res.Top(req.Limit)),
	})
}

// TextSuggestions suggests objects for a concept description that has not been saved.
//
//	GET /api/v1/containers/{id}/suggestions/text?q=red+car&limit=10
func (h *Handler) TextSuggestions(w http.ResponseWriter, r *http.Request) {
	req := TextSuggestionRequest{
		ContainerID: containerIDParam(r),
		Text:        r.URL.Query().Get("q"),
		Limit:       intQuery(r, "limit", suggest.DefaultTopM),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	ctx := r.Context()
	g, err := h.loadGraph(ctx, req.ContainerID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	res, err := h.engine.SuggestTextWith(ctx, g, req.Text)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondData(w, r, SuggestionResponse{
		ContainerID: req.ContainerID,
		Text:        req.Text,
		Algorithm:   string(suggest.KindSAGA),
		Total:       len(res),
		Suggestions: toSuggestions(g, res.Top(req.Limit)),
	})
}
