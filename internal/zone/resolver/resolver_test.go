package resolver

import (
	"testing"
	"time"

	zonedomain "hse-backend/internal/zone/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeZoneRepo struct {
	zones []*zonedomain.Zone
}

func (f *fakeZoneRepo) Create(zone *zonedomain.Zone) error {
	f.zones = append(f.zones, zone)
	return nil
}

func (f *fakeZoneRepo) FindByID(id string) (*zonedomain.Zone, error) {
	for _, z := range f.zones {
		if z.ID == id {
			return z, nil
		}
	}
	return nil, nil
}

func (f *fakeZoneRepo) FindByCode(code string) (*zonedomain.Zone, error) {
	for _, z := range f.zones {
		if z.Code == code {
			return z, nil
		}
	}
	return nil, nil
}

func (f *fakeZoneRepo) FindByIDs(ids []string) ([]*zonedomain.Zone, error) {
	var out []*zonedomain.Zone
	for _, z := range f.zones {
		for _, id := range ids {
			if z.ID == id {
				out = append(out, z)
			}
		}
	}
	return out, nil
}

type fakeRespRepo struct {
	responsibilities []*zonedomain.ZoneResponsibility
}

func (f *fakeRespRepo) Create(resp *zonedomain.ZoneResponsibility) error {
	f.responsibilities = append(f.responsibilities, resp)
	return nil
}

func (f *fakeRespRepo) FindActiveByZone(zoneID string) ([]*zonedomain.ZoneResponsibility, error) {
	var out []*zonedomain.ZoneResponsibility
	for _, r := range f.responsibilities {
		if r.ZoneID == zoneID && r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRespRepo) FindActiveByUser(userID string) ([]*zonedomain.ZoneResponsibility, error) {
	var out []*zonedomain.ZoneResponsibility
	for _, r := range f.responsibilities {
		if r.HSEUserID == userID && r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeDelegationRepo struct {
	delegations []*zonedomain.ZoneDelegation
}

func (f *fakeDelegationRepo) Create(d *zonedomain.ZoneDelegation) error {
	f.delegations = append(f.delegations, d)
	return nil
}

func (f *fakeDelegationRepo) FindByID(id string) (*zonedomain.ZoneDelegation, error) {
	for _, d := range f.delegations {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeDelegationRepo) FindActiveForZoneAt(zoneID string, at time.Time) ([]*zonedomain.ZoneDelegation, error) {
	var out []*zonedomain.ZoneDelegation
	for _, d := range f.delegations {
		if d.ZoneID == zoneID && d.Covers(at) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDelegationRepo) FindActiveAt(at time.Time) ([]*zonedomain.ZoneDelegation, error) {
	var out []*zonedomain.ZoneDelegation
	for _, d := range f.delegations {
		if d.Covers(at) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDelegationRepo) Update(delegation *zonedomain.ZoneDelegation) error {
	for i, d := range f.delegations {
		if d.ID == delegation.ID {
			f.delegations[i] = delegation
			return nil
		}
	}
	return nil
}

func day(offset int) time.Time {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func newTestResolver(zones *fakeZoneRepo, resps *fakeRespRepo, delegations *fakeDelegationRepo) *Resolver {
	return NewResolver(zones, resps, delegations)
}

func TestResolvePermanentHolders(t *testing.T) {
	zones := &fakeZoneRepo{zones: []*zonedomain.Zone{{ID: "z1", Code: "WH-A", Active: true}}}
	resps := &fakeRespRepo{responsibilities: []*zonedomain.ZoneResponsibility{
		{ID: "r1", HSEUserID: "user-b", ZoneID: "z1", Active: true},
		{ID: "r2", HSEUserID: "user-a", ZoneID: "z1", Active: true},
		{ID: "r3", HSEUserID: "user-c", ZoneID: "z1", Active: false},
	}}
	r := newTestResolver(zones, resps, &fakeDelegationRepo{})

	owners, err := r.Resolve("z1", day(0))
	require.NoError(t, err)
	assert.Equal(t, []string{"user-a", "user-b"}, owners)
}

func TestResolveDelegationOverridesPermanent(t *testing.T) {
	zones := &fakeZoneRepo{zones: []*zonedomain.Zone{{ID: "z1", Code: "WH-A", Active: true}}}
	resps := &fakeRespRepo{responsibilities: []*zonedomain.ZoneResponsibility{
		{ID: "r1", HSEUserID: "user-a", ZoneID: "z1", Active: true},
		{ID: "r2", HSEUserID: "user-b", ZoneID: "z1", Active: true},
	}}
	delegations := &fakeDelegationRepo{delegations: []*zonedomain.ZoneDelegation{
		{ID: "d1", FromUserID: "user-a", ToUserID: "user-x", ZoneID: "z1",
			StartDate: day(-1), EndDate: day(1), Active: true},
	}}
	r := newTestResolver(zones, resps, delegations)

	owners, err := r.Resolve("z1", day(0))
	require.NoError(t, err)

	// Delegate targets only, never mixed with permanent holders.
	assert.Equal(t, []string{"user-x"}, owners)
}

func TestResolveExpiredDelegationFallsBack(t *testing.T) {
	zones := &fakeZoneRepo{zones: []*zonedomain.Zone{{ID: "z1", Code: "WH-A", Active: true}}}
	resps := &fakeRespRepo{responsibilities: []*zonedomain.ZoneResponsibility{
		{ID: "r1", HSEUserID: "user-a", ZoneID: "z1", Active: true},
	}}
	delegations := &fakeDelegationRepo{delegations: []*zonedomain.ZoneDelegation{
		{ID: "d1", FromUserID: "user-a", ToUserID: "user-x", ZoneID: "z1",
			StartDate: day(-10), EndDate: day(-5), Active: true},
	}}
	r := newTestResolver(zones, resps, delegations)

	owners, err := r.Resolve("z1", day(0))
	require.NoError(t, err)
	assert.Equal(t, []string{"user-a"}, owners)
}

func TestResolveMultipleDelegatesSortedUnique(t *testing.T) {
	zones := &fakeZoneRepo{zones: []*zonedomain.Zone{{ID: "z1", Code: "WH-A", Active: true}}}
	delegations := &fakeDelegationRepo{delegations: []*zonedomain.ZoneDelegation{
		{ID: "d1", FromUserID: "user-a", ToUserID: "user-y", ZoneID: "z1",
			StartDate: day(-1), EndDate: day(1), Active: true},
		{ID: "d2", FromUserID: "user-b", ToUserID: "user-x", ZoneID: "z1",
			StartDate: day(-2), EndDate: day(2), Active: true},
		{ID: "d3", FromUserID: "user-c", ToUserID: "user-x", ZoneID: "z1",
			StartDate: day(-1), EndDate: day(3), Active: true},
	}}
	r := newTestResolver(zones, &fakeRespRepo{}, delegations)

	owners, err := r.Resolve("z1", day(0))
	require.NoError(t, err)
	assert.Equal(t, []string{"user-x", "user-y"}, owners)
}

func TestResolveUnknownZoneIsEmpty(t *testing.T) {
	r := newTestResolver(&fakeZoneRepo{}, &fakeRespRepo{}, &fakeDelegationRepo{})

	owners, err := r.Resolve("missing", day(0))
	require.NoError(t, err)
	assert.Empty(t, owners)
}

func TestResolveByCodeUnknownCodeIsEmpty(t *testing.T) {
	r := newTestResolver(&fakeZoneRepo{}, &fakeRespRepo{}, &fakeDelegationRepo{})

	owners, err := r.ResolveByCode("NOPE", day(0))
	require.NoError(t, err)
	assert.Empty(t, owners)
}

func TestResolveZoneWithNoHoldersIsEmpty(t *testing.T) {
	zones := &fakeZoneRepo{zones: []*zonedomain.Zone{{ID: "z1", Code: "WH-A", Active: true}}}
	r := newTestResolver(zones, &fakeRespRepo{}, &fakeDelegationRepo{})

	owners, err := r.Resolve("z1", day(0))
	require.NoError(t, err)
	assert.Empty(t, owners)
}

func TestOwnedZoneIDs(t *testing.T) {
	zones := &fakeZoneRepo{zones: []*zonedomain.Zone{
		{ID: "z1", Code: "WH-A", Active: true},
		{ID: "z2", Code: "WH-B", Active: true},
		{ID: "z3", Code: "WH-C", Active: true},
	}}
	resps := &fakeRespRepo{responsibilities: []*zonedomain.ZoneResponsibility{
		{ID: "r1", HSEUserID: "user-a", ZoneID: "z1", Active: true},
		{ID: "r2", HSEUserID: "user-a", ZoneID: "z2", Active: true},
	}}
	delegations := &fakeDelegationRepo{delegations: []*zonedomain.ZoneDelegation{
		// z2 delegated away from user-a
		{ID: "d1", FromUserID: "user-a", ToUserID: "user-x", ZoneID: "z2",
			StartDate: day(-1), EndDate: day(1), Active: true},
		// z3 delegated to user-a
		{ID: "d2", FromUserID: "user-b", ToUserID: "user-a", ZoneID: "z3",
			StartDate: day(-1), EndDate: day(1), Active: true},
	}}
	r := newTestResolver(zones, resps, delegations)

	owned, err := r.OwnedZoneIDs("user-a", day(0))
	require.NoError(t, err)
	assert.Equal(t, []string{"z1", "z3"}, owned)

	// After the delegations lapse the permanent set is back.
	owned, err = r.OwnedZoneIDs("user-a", day(5))
	require.NoError(t, err)
	assert.Equal(t, []string{"z1", "z2"}, owned)
}
