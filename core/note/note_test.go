package note_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-user01/Study-Platform-Server/core/note"
	inmemdb "github.com/the-user01/Study-Platform-Server/storage/database/inmem"
	"github.com/the-user01/Study-Platform-Server/tests"
)

func TestService(t *testing.T) {
	svc := note.NewService(inmemdb.NewNoteRepository(inmemdb.Open()))
	ctx := context.Background()
	validate := testutil.NewValidator()

	nn := note.NewNote{Title: "  "}
	assert.Error(t, nn.Validate(validate))

	nn = note.NewNote{Title: " Week 1 ", Description: " joins "}
	require.NoError(t, nn.Validate(validate))
	n, err := svc.Create(ctx, "Sue@x.com", nn)
	require.NoError(t, err)
	assert.Equal(t, "Week 1", n.Title)
	assert.Equal(t, "joins", n.Description)
	assert.Equal(t, "sue@x.com", n.Email)

	_, err = svc.Create(ctx, "sam@x.com", note.NewNote{Title: "Other"})
	require.NoError(t, err)

	notes, err := svc.Query(ctx, " SUE@x.com")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, n.ID, notes[0].ID)

	notes, err = svc.Query(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}
