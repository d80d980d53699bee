package usecase

import (
	"testing"
	"time"

	reportdomain "hse-backend/internal/report/domain"
	zonedomain "hse-backend/internal/zone/domain"
	"hse-backend/internal/zone/resolver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportRepo struct {
	reports map[string]*reportdomain.Report
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[string]*reportdomain.Report)}
}

func (f *fakeReportRepo) Create(report *reportdomain.Report) error {
	f.reports[report.ID] = report
	return nil
}

func (f *fakeReportRepo) FindByID(id string) (*reportdomain.Report, error) {
	return f.reports[id], nil
}

func (f *fakeReportRepo) FindByIDs(ids []string) ([]*reportdomain.Report, error) {
	var out []*reportdomain.Report
	for _, id := range ids {
		if r, ok := f.reports[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) Update(report *reportdomain.Report) error {
	f.reports[report.ID] = report
	return nil
}

func (f *fakeReportRepo) AssignOwner(reportID, ownerID string) error {
	if r, ok := f.reports[reportID]; ok {
		owner := ownerID
		r.AssignedOwnerID = &owner
	}
	return nil
}

func (f *fakeReportRepo) CountByStatusAndZoneCodes(status reportdomain.ReportStatus, zoneCodes []string) (int64, error) {
	var n int64
	for _, r := range f.reports {
		if r.Status != status {
			continue
		}
		for _, code := range zoneCodes {
			if r.ZoneCode == code {
				n++
				break
			}
		}
	}
	return n, nil
}

func (f *fakeReportRepo) CountByStatus(status reportdomain.ReportStatus) (int64, error) {
	var n int64
	for _, r := range f.reports {
		if r.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeZoneRepo struct {
	zones []*zonedomain.Zone
}

func (f *fakeZoneRepo) Create(zone *zonedomain.Zone) error { return nil }

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

func (f *fakeZoneRepo) FindByIDs(ids []string) ([]*zonedomain.Zone, error) { return nil, nil }

type fakeRespRepo struct {
	responsibilities []*zonedomain.ZoneResponsibility
}

func (f *fakeRespRepo) Create(resp *zonedomain.ZoneResponsibility) error { return nil }

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
	return nil, nil
}

type fakeDelegationRepo struct {
	delegations []*zonedomain.ZoneDelegation
}

func (f *fakeDelegationRepo) Create(d *zonedomain.ZoneDelegation) error { return nil }

func (f *fakeDelegationRepo) FindByID(id string) (*zonedomain.ZoneDelegation, error) {
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
	return nil, nil
}

func (f *fakeDelegationRepo) Update(delegation *zonedomain.ZoneDelegation) error { return nil }

func testTime() time.Time {
	return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
}

func TestAutoAssignPicksLowestUserID(t *testing.T) {
	zones := &fakeZoneRepo{zones: []*zonedomain.Zone{{ID: "z1", Code: "WH-A", Active: true}}}
	resps := &fakeRespRepo{responsibilities: []*zonedomain.ZoneResponsibility{
		{ID: "r1", HSEUserID: "hse-2", ZoneID: "z1", Active: true},
		{ID: "r2", HSEUserID: "hse-1", ZoneID: "z1", Active: true},
	}}
	reports := newFakeReportRepo()
	report := &reportdomain.Report{ID: "rep-1", ZoneCode: "WH-A", ReporterID: "emp-1", CreatedAt: testTime()}
	require.NoError(t, reports.Create(report))

	engine := NewAssignmentEngine(reports, resolver.NewResolver(zones, resps, &fakeDelegationRepo{}))
	ownerID, err := engine.AutoAssign(report)
	require.NoError(t, err)

	assert.Equal(t, "hse-1", ownerID)
	require.NotNil(t, report.AssignedOwnerID)
	assert.Equal(t, "hse-1", *report.AssignedOwnerID)

	stored, err := reports.FindByID("rep-1")
	require.NoError(t, err)
	require.NotNil(t, stored.AssignedOwnerID)
	assert.Equal(t, "hse-1", *stored.AssignedOwnerID)
}

func TestAutoAssignFollowsActiveDelegation(t *testing.T) {
	zones := &fakeZoneRepo{zones: []*zonedomain.Zone{{ID: "z1", Code: "WH-A", Active: true}}}
	resps := &fakeRespRepo{responsibilities: []*zonedomain.ZoneResponsibility{
		{ID: "r1", HSEUserID: "hse-1", ZoneID: "z1", Active: true},
	}}
	delegations := &fakeDelegationRepo{delegations: []*zonedomain.ZoneDelegation{
		{ID: "d1", FromUserID: "hse-1", ToUserID: "hse-9", ZoneID: "z1",
			StartDate: testTime().Add(-24 * time.Hour), EndDate: testTime().Add(24 * time.Hour), Active: true},
	}}
	reports := newFakeReportRepo()
	report := &reportdomain.Report{ID: "rep-1", ZoneCode: "WH-A", ReporterID: "emp-1", CreatedAt: testTime()}
	require.NoError(t, reports.Create(report))

	engine := NewAssignmentEngine(reports, resolver.NewResolver(zones, resps, delegations))
	ownerID, err := engine.AutoAssign(report)
	require.NoError(t, err)

	assert.Equal(t, "hse-9", ownerID)
}

func TestAutoAssignEmptyOwnerSetLeavesUnassigned(t *testing.T) {
	zones := &fakeZoneRepo{zones: []*zonedomain.Zone{{ID: "z1", Code: "WH-A", Active: true}}}
	reports := newFakeReportRepo()
	report := &reportdomain.Report{ID: "rep-1", ZoneCode: "WH-A", ReporterID: "emp-1", CreatedAt: testTime()}
	require.NoError(t, reports.Create(report))

	engine := NewAssignmentEngine(reports, resolver.NewResolver(zones, &fakeRespRepo{}, &fakeDelegationRepo{}))
	ownerID, err := engine.AutoAssign(report)
	require.NoError(t, err)

	assert.Empty(t, ownerID)
	assert.Nil(t, report.AssignedOwnerID)
}

func TestAutoAssignUnknownZoneCodeLeavesUnassigned(t *testing.T) {
	reports := newFakeReportRepo()
	report := &reportdomain.Report{ID: "rep-1", ZoneCode: "GHOST", ReporterID: "emp-1", CreatedAt: testTime()}
	require.NoError(t, reports.Create(report))

	engine := NewAssignmentEngine(reports, resolver.NewResolver(&fakeZoneRepo{}, &fakeRespRepo{}, &fakeDelegationRepo{}))
	ownerID, err := engine.AutoAssign(report)
	require.NoError(t, err)

	assert.Empty(t, ownerID)
	assert.Nil(t, report.AssignedOwnerID)
}
