package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telemedpro/telemed/backend/internal/device"
	"github.com/telemedpro/telemed/backend/internal/model/record"
)

func newTestService() (*Service, *device.Simulated) {
	caps := device.NewSimulated(device.Coordinates{Latitude: -33.45, Longitude: -70.66}, "Santiago")
	return NewService(record.SeedProfile(), caps), caps
}

func TestGetReturnsCopy(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p := svc.Get(ctx)
	assert.Equal(t, "Kevin Rodas", p.User.FullName)
	p.Medical.Allergies[0] = "changed"
	p.Contacts[0].Name = "changed"

	again := svc.Get(ctx)
	assert.Equal(t, "Penicilina", again.Medical.Allergies[0])
	assert.Equal(t, "María Rodas", again.Contacts[0].Name)
}

func TestUpdatePersonal(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.UpdatePersonal(ctx, record.UserProfile{FullName: "Kevin", Email: " "})
	assert.ErrorIs(t, err, record.ErrIncompleteForm)

	user, err := svc.UpdatePersonal(ctx, record.UserProfile{
		FullName: " Kevin R. ", Email: "k@example.com", Phone: "+56 9 0000 0000", PhotoURI: "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, "Kevin R.", user.FullName)
	assert.Empty(t, user.PhotoURI)
}

func TestMedicalLists(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, err := svc.AddItem(ctx, Allergies, "Polen")
	require.NoError(t, err)
	assert.Equal(t, []string{"Penicilina", "Mariscos", "Polen"}, info.Allergies)

	info, err = svc.RemoveItem(ctx, Conditions, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Diabetes tipo 2"}, info.Conditions)

	_, err = svc.RemoveItem(ctx, Conditions, 5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = svc.AddItem(ctx, Allergies, "  ")
	assert.ErrorIs(t, err, record.ErrIncompleteForm)
	_, err = svc.AddItem(ctx, "vaccines", "BCG")
	assert.ErrorIs(t, err, record.ErrNotFound)
}

func TestContacts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	c, err := svc.AddContact(ctx, ContactInput{Name: "Luis", Phone: "+56911112222"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), c.ID)

	_, err = svc.AddContact(ctx, ContactInput{Name: "Sin teléfono"})
	assert.ErrorIs(t, err, record.ErrIncompleteForm)

	c, err = svc.UpdateContact(ctx, 4, ContactInput{Name: "Luis Rodas", Relationship: "Hijo", Phone: "+56911112222"})
	require.NoError(t, err)
	assert.Equal(t, "Hijo", c.Relationship)

	require.NoError(t, svc.DeleteContact(ctx, 4))
	assert.ErrorIs(t, svc.DeleteContact(ctx, 4), record.ErrNotFound)
	assert.Len(t, svc.Contacts(ctx), 3)

	primary, ok := svc.PrimaryContact(ctx)
	require.True(t, ok)
	assert.Equal(t, "María Rodas", primary.Name)
}

func TestCallContact(t *testing.T) {
	svc, caps := newTestService()
	ctx := context.Background()

	uri, err := svc.CallContact(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "tel:+56987654321", uri)

	_, err = svc.CallContact(ctx, 99)
	assert.ErrorIs(t, err, record.ErrNotFound)

	caps.SetPermission(device.Telephony, false)
	_, err = svc.CallContact(ctx, 1)
	assert.ErrorIs(t, err, device.ErrPermissionDenied)
}

func TestChangePhoto(t *testing.T) {
	svc, caps := newTestService()
	ctx := context.Background()

	uri, err := svc.ChangePhoto(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, uri)
	assert.Equal(t, uri, svc.Get(ctx).User.PhotoURI)

	caps.SetPermission(device.PhotoLibrary, false)
	_, err = svc.ChangePhoto(ctx)
	assert.ErrorIs(t, err, device.ErrPermissionDenied)
}
