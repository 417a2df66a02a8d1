// Cohortcast - Game Metrics and Predictive Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cohortcast

package analytics

import (
	"strings"

	"github.com/tomtom215/cohortcast/internal/models"
)

// revenueTypes is the preference order for the revenue column.
var revenueTypes = []models.SemanticType{
	models.SemanticRevenue,
	models.SemanticPurchaseAmount,
	models.SemanticPrice,
}

// dimensionFallbacks lists column-name fragments accepted for each revenue
// breakdown dimension when no column carries the semantic type.
var dimensionFallbacks = map[string][]string{
	models.DimensionSource:   {"source", "channel", "utm", "campaign"},
	models.DimensionCountry:  {"country", "region", "geo"},
	models.DimensionPlatform: {"platform", "device"},
	models.DimensionProduct:  {"product", "item", "sku"},
}

var dimensionTypes = map[string]models.SemanticType{
	models.DimensionSource:   models.SemanticAcquisitionSource,
	models.DimensionCountry:  models.SemanticCountry,
	models.DimensionPlatform: models.SemanticPlatform,
	models.DimensionProduct:  models.SemanticItemID,
}

// Columns resolves semantic roles to column names.
type Columns struct {
	meanings []models.ColumnMeaning
}

// NewColumns builds a resolver over the given meanings. Order is preference order.
func NewColumns(meanings []models.ColumnMeaning) Columns {
	return Columns{meanings: meanings}
}

// Find returns the first column whose semantic type is one of types, trying
// the types in the order given.
func (c Columns) Find(types ...models.SemanticType) (string, bool) {
	for _, t := range types {
		for _, m := range c.meanings {
			if m.SemanticType == t && m.Column != "" {
				return m.Column, true
			}
		}
	}
	return "", false
}

// FindByName returns the first column whose lower-cased name contains any of
// the fragments.
func (c Columns) FindByName(fragments ...string) (string, bool) {
	for _, m := range c.meanings {
		name := strings.ToLower(m.Column)
		for _, f := range fragments {
			if f != "" && strings.Contains(name, f) {
				return m.Column, true
			}
		}
	}
	return "", false
}

// UserID resolves the user identity column.
func (c Columns) UserID() (string, bool) { return c.Find(models.SemanticUserID) }

// Timestamp resolves the activity timestamp column.
func (c Columns) Timestamp() (string, bool) { return c.Find(models.SemanticTimestamp) }

// SessionID resolves the session identifier column.
func (c Columns) SessionID() (string, bool) { return c.Find(models.SemanticSessionID) }

// SessionDuration resolves the session length column.
func (c Columns) SessionDuration() (string, bool) { return c.Find(models.SemanticSessionDuration) }

// Revenue resolves the revenue column, preferring revenue over purchase amount over price.
func (c Columns) Revenue() (string, bool) { return c.Find(revenueTypes...) }

// Level resolves the progression level column.
func (c Columns) Level() (string, bool) { return c.Find(models.SemanticLevel) }

// Category resolves the purchase category column, falling back to the
// acquisition source.
func (c Columns) Category() (string, bool) {
	if col, ok := c.Find(models.SemanticCategory); ok {
		return col, true
	}
	if col, ok := c.FindByName("category"); ok {
		return col, true
	}
	if col, ok := c.Find(models.SemanticAcquisitionSource); ok {
		return col, true
	}
	return c.FindByName("source")
}

// Dimension resolves a revenue breakdown dimension by semantic type, then by name fragment.
func (c Columns) Dimension(dimension string) (string, bool) {
	if t, ok := dimensionTypes[dimension]; ok {
		if col, found := c.Find(t); found {
			return col, true
		}
	}
	return c.FindByName(dimensionFallbacks[dimension]...)
}
