package prescription

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telemedpro/telemed/backend/internal/model/record"
)

func newTestService() *Service {
	s := NewService(record.SeedPrescriptions())
	s.now = func() time.Time { return time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestCreatePrependsDatedToday(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	item, err := svc.Create(ctx, Input{Medication: " Loratadina ", Dosage: "10mg", Frequency: "1 vez al día"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), item.ID)
	assert.Equal(t, "Loratadina", item.Medication)
	assert.Equal(t, "2025-06-02", item.Date)

	items := svc.List(ctx)
	require.Len(t, items, 4)
	assert.Equal(t, item.ID, items[0].ID)
}

func TestCreateRequiresFields(t *testing.T) {
	svc := newTestService()
	_, err := svc.Create(context.Background(), Input{Medication: "Loratadina", Dosage: "10mg"})
	assert.ErrorIs(t, err, record.ErrIncompleteForm)
	assert.Len(t, svc.List(context.Background()), 3)
}

func TestUpdateKeepsIDAndDate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	item, err := svc.Update(ctx, 2, Input{Medication: "Paracetamol", Dosage: "1g", Frequency: "Cada 8 horas"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), item.ID)
	assert.Equal(t, "2025-05-25", item.Date)
	assert.Equal(t, "1g", item.Dosage)

	_, err = svc.Update(ctx, 42, Input{Medication: "x", Dosage: "y", Frequency: "z"})
	assert.ErrorIs(t, err, record.ErrNotFound)
	_, err = svc.Update(ctx, 2, Input{})
	assert.ErrorIs(t, err, record.ErrIncompleteForm)
}

func TestDelete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, 1))
	_, err := svc.Get(ctx, 1)
	assert.ErrorIs(t, err, record.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 1), record.ErrNotFound)
}

func TestSummary(t *testing.T) {
	svc := newTestService()
	text := svc.Summary(context.Background())

	assert.Contains(t, text, "3 recetas activas")
	assert.Contains(t, text, "RECETA 1 DE 3\nIbuprofeno\nDosis: 400mg\n")
	assert.Contains(t, text, "Instrucciones: Tomar en ayunas, 30 minutos antes del desayuno.")
	assert.Contains(t, text, "el 02/06/2025")
}
