package material_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/the-user01/Study-Platform-Server/core"
	"github.com/the-user01/Study-Platform-Server/core/material"
	inmemdb "github.com/the-user01/Study-Platform-Server/storage/database/inmem"
	"github.com/the-user01/Study-Platform-Server/tests"
)

func TestService(t *testing.T) {
	svc := material.NewService(inmemdb.NewMaterialRepository(inmemdb.Open()))
	ctx := context.Background()
	s1, s2 := primitive.NewObjectID(), primitive.NewObjectID()

	for _, m := range []struct {
		tutor string
		nm    material.NewMaterial
	}{
		{"tom@x.com", material.NewMaterial{Title: "Slides", SessionID: s1}},
		{"TOM@x.com", material.NewMaterial{Title: "Drive", SessionID: s2, Link: "https://drive.example/x"}},
		{"tina@x.com", material.NewMaterial{Title: "Notes", SessionID: s1}},
	} {
		_, err := svc.Create(ctx, m.tutor, m.nm)
		require.NoError(t, err)
	}

	tests := []struct {
		name       string
		filter     material.QueryFilter
		wantTitles []string
		wantErr    bool
	}{
		{name: "all", filter: material.QueryFilter{}, wantTitles: []string{"Slides", "Drive", "Notes"}},
		{name: "by session", filter: material.QueryFilter{SessionID: s1.Hex()}, wantTitles: []string{"Slides", "Notes"}},
		{name: "by tutor", filter: material.QueryFilter{TutorEmail: "tom@x.com"}, wantTitles: []string{"Slides", "Drive"}},
		{name: "by both", filter: material.QueryFilter{SessionID: s1.Hex(), TutorEmail: "tina@x.com"}, wantTitles: []string{"Notes"}},
		{name: "malformed session id", filter: material.QueryFilter{SessionID: "123"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			materials, err := svc.Query(ctx, tt.filter)
			if tt.wantErr {
				assert.True(t, core.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			titles := make([]string, 0, len(materials))
			for _, m := range materials {
				titles = append(titles, m.Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}
}

func TestNewMaterial_Validate(t *testing.T) {
	validate := testutil.NewValidator()

	nm := material.NewMaterial{Title: " Slides ", SessionID: primitive.NewObjectID()}
	require.NoError(t, nm.Validate(validate))
	assert.Equal(t, "Slides", nm.Title)

	nm = material.NewMaterial{Title: "Slides"}
	assert.Error(t, nm.Validate(validate))

	nm = material.NewMaterial{Title: "Slides", SessionID: primitive.NewObjectID(), Link: "not a url"}
	assert.Error(t, nm.Validate(validate))
}
