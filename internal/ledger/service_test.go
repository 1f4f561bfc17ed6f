package ledger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapterbooks/chapterbooks/internal/id"
	"github.com/chapterbooks/chapterbooks/internal/model"
)

type committeeMap map[string]model.Committee

func (m committeeMap) Get(cid string) (model.Committee, bool) {
	c, ok := m[cid]
	return c, ok
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(filepath.Join(t.TempDir(), RelPath), nil, WithIDGenerator(id.Sequence()))
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC) }
	return svc
}

func validParams() SubmitParams {
	return SubmitParams{
		Amount:      decimal.RequireFromString("25.00"),
		Merchant:    "  Office Depot ",
		Category:    model.CategorySupplies,
		Type:        model.TypeReimbursement,
		SubmittedBy: "Dana",
	}
}

func TestSubmit(t *testing.T) {
	svc := newTestService(t)

	tx, err := svc.Submit(validParams(), nil)
	require.NoError(t, err)

	assert.Equal(t, "tx-1", tx.ID)
	assert.Equal(t, model.StatusPending, tx.Status)
	assert.Equal(t, "Office Depot", tx.Merchant)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), tx.Date)

	got, ok := svc.Get("tx-1")
	require.True(t, ok)
	assert.Equal(t, tx, got)
}

func TestSubmit_Committee(t *testing.T) {
	svc := newTestService(t)
	committees := committeeMap{"cmt-9": {ID: "cmt-9", Name: "Programs"}}

	p := validParams()
	p.CommitteeID = "cmt-9"
	tx, err := svc.Submit(p, committees)
	require.NoError(t, err)
	assert.Equal(t, "Programs", tx.CommitteeName)

	p.CommitteeID = "cmt-404"
	_, err = svc.Submit(p, committees)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Submit(p, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmit_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SubmitParams)
		want   string
	}{
		{"no merchant", func(p *SubmitParams) { p.Merchant = "   " }, "Merchant required"},
		{"no submitter", func(p *SubmitParams) { p.SubmittedBy = "" }, "SubmittedBy required"},
		{"bad type", func(p *SubmitParams) { p.Type = "TRANSFER" }, "Type oneof"},
		{"zero amount", func(p *SubmitParams) { p.Amount = decimal.Zero }, "Amount must be positive"},
		{"negative amount", func(p *SubmitParams) { p.Amount = decimal.RequireFromString("-3") }, "Amount must be positive"},
		{"bad source", func(p *SubmitParams) { p.PaymentSource = "Bitcoin" }, "PaymentSource payment_source"},
		{"income category on expense", func(p *SubmitParams) { p.Category = model.CategoryMembershipDues }, "not offered"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)
			p := validParams()
			tt.mutate(&p)

			_, err := svc.Submit(p, nil)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, svc.All())
		})
	}
}

func TestSubmit_AcceptsSharedAndCustomCategories(t *testing.T) {
	svc := newTestService(t)

	p := validParams()
	p.Category = model.CategoryTransfer
	_, err := svc.Submit(p, nil)
	require.NoError(t, err)

	p.Category = "Alumni Gala"
	_, err = svc.Submit(p, nil)
	require.NoError(t, err)
}

func TestApproveReject(t *testing.T) {
	svc := newTestService(t)
	a, err := svc.Submit(validParams(), nil)
	require.NoError(t, err)
	b, err := svc.Submit(validParams(), nil)
	require.NoError(t, err)

	approved, err := svc.Approve(a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, approved.Status)

	rejected, err := svc.Reject(b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, rejected.Status)

	_, err = svc.Approve(b.ID)
	assert.ErrorIs(t, err, ErrNotPending)
	_, err = svc.Reject(a.ID)
	assert.ErrorIs(t, err, ErrNotPending)

	_, err = svc.Approve("tx-404")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Empty(t, svc.Pending())
}

func TestAppend_RejectsDuplicates(t *testing.T) {
	svc := newTestService(t)
	tx := testTransaction()
	require.NoError(t, svc.Append([]model.Transaction{tx}))

	other := testTransaction()
	other.ID = "tx-2"
	err := svc.Append([]model.Transaction{other, tx})
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Len(t, svc.All(), 1, "a rejected batch adds nothing")

	err = svc.Append([]model.Transaction{other, other})
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestSearch(t *testing.T) {
	svc := newTestService(t)
	printing := testTransaction()
	dues := testTransaction()
	dues.ID = "tx-2"
	dues.Merchant = "Wix Payments"
	dues.Description = "WIX PAYMENTS DEPOSIT"
	dues.Category = model.CategoryMembershipDues
	require.NoError(t, svc.Append([]model.Transaction{printing, dues}))

	assert.Len(t, svc.Search(""), 2)
	assert.Len(t, svc.Search("  "), 2)

	got := svc.Search("kinko")
	require.Len(t, got, 1)
	assert.Equal(t, "tx-1", got[0].ID)

	got = svc.Search("membership")
	require.Len(t, got, 1)
	assert.Equal(t, "tx-2", got[0].ID)

	assert.Len(t, svc.Search("deposit"), 1)
	assert.Empty(t, svc.Search("zelle"))
}

func TestLoad_MissingFile(t *testing.T) {
	svc, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, svc.All())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	svc, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, svc.Append([]model.Transaction{testTransaction()}))
	require.NoError(t, svc.Save())

	_, err = os.Stat(filepath.Join(dir, RelPath+".tmp"))
	assert.True(t, os.IsNotExist(err))

	reloaded, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, reloaded.All(), 1)
	assert.Equal(t, "Kinko's, Downtown", reloaded.All()[0].Merchant)
}

func TestLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, RelPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(Header+"\nonly,three,fields\n"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestNewestFirst(t *testing.T) {
	day := func(d int) model.Transaction {
		return model.Transaction{ID: string(rune('a' + d)), Date: time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)}
	}
	txns := []model.Transaction{day(1), day(3), day(2)}
	txns = append(txns, model.Transaction{ID: "z", Date: day(3).Date})

	NewestFirst(txns)
	var ids []string
	for _, tx := range txns {
		ids = append(ids, tx.ID)
	}
	assert.Equal(t, []string{"d", "z", "c", "b"}, ids)
}
