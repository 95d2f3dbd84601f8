package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/reelkeep/reelkeep/pkg/errors"
	"github.com/reelkeep/reelkeep/pkg/models"
)

func TestPreferenceTypeValid(t *testing.T) {
	for _, pt := range []models.PreferenceType{
		models.PreferenceTypeString,
		models.PreferenceTypeInt,
		models.PreferenceTypeFloat,
		models.PreferenceTypeBool,
		models.PreferenceTypeJSON,
	} {
		assert.True(t, pt.Valid(), "%s should be valid", pt)
	}

	assert.False(t, models.PreferenceType("decimal").Valid())
	assert.False(t, models.PreferenceType("").Valid())
}

func TestParsePreferenceValue(t *testing.T) {
	tests := []struct {
		name     string
		dataType models.PreferenceType
		raw      string
		wantErr  bool
		check    func(*testing.T, *models.TypedValue)
	}{
		{
			name:     "string passes through",
			dataType: models.PreferenceTypeString,
			raw:      "dark",
			check: func(t *testing.T, tv *models.TypedValue) {
				assert.Equal(t, "dark", tv.Str)
			},
		},
		{
			name:     "int parses",
			dataType: models.PreferenceTypeInt,
			raw:      "42",
			check: func(t *testing.T, tv *models.TypedValue) {
				assert.Equal(t, int64(42), tv.Int)
			},
		},
		{
			name:     "int rejects decimal",
			dataType: models.PreferenceTypeInt,
			raw:      "42.5",
			wantErr:  true,
		},
		{
			name:     "float parses",
			dataType: models.PreferenceTypeFloat,
			raw:      "0.75",
			check: func(t *testing.T, tv *models.TypedValue) {
				assert.Equal(t, 0.75, tv.Float)
			},
		},
		{
			name:     "float rejects text",
			dataType: models.PreferenceTypeFloat,
			raw:      "fast",
			wantErr:  true,
		},
		{
			name:     "bool parses",
			dataType: models.PreferenceTypeBool,
			raw:      "true",
			check: func(t *testing.T, tv *models.TypedValue) {
				assert.True(t, tv.Bool)
			},
		},
		{
			name:     "bool rejects yes",
			dataType: models.PreferenceTypeBool,
			raw:      "yes",
			wantErr:  true,
		},
		{
			name:     "json parses object",
			dataType: models.PreferenceTypeJSON,
			raw:      `{"columns": ["title", "duration"]}`,
			check: func(t *testing.T, tv *models.TypedValue) {
				assert.JSONEq(t, `{"columns": ["title", "duration"]}`, string(tv.JSON))
			},
		},
		{
			name:     "json rejects malformed",
			dataType: models.PreferenceTypeJSON,
			raw:      `{"columns": [`,
			wantErr:  true,
		},
		{
			name:     "unknown type rejected",
			dataType: "decimal",
			raw:      "1",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tv, err := models.ParsePreferenceValue(tt.dataType, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, pkgerrors.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.dataType, tv.Type)
			if tt.check != nil {
				tt.check(t, tv)
			}
		})
	}
}

func TestUserPreferenceTypedValue(t *testing.T) {
	pref := &models.UserPreference{
		PreferenceKey:   "playback.default_speed",
		PreferenceValue: "1.5",
		DataType:        models.PreferenceTypeFloat,
	}

	tv, err := pref.TypedValue()
	require.NoError(t, err)
	assert.Equal(t, 1.5, tv.Float)

	// A row whose stored value no longer matches its declared type surfaces
	// the offending key in the error.
	pref.PreferenceValue = "oops"
	_, err = pref.TypedValue()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "playback.default_speed")
	assert.True(t, pkgerrors.IsValidation(err))
}
