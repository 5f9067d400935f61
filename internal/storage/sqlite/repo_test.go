package sqlite

import (
	"context"
	"testing"
)

func newMemDB(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(context.Background(), Config{DSN: ":memory:"})
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(repo.Close)
	return repo
}

func mustExec(t *testing.T, repo *Repository, sqlText string) {
	t.Helper()
	if err := repo.Exec(context.Background(), sqlText); err != nil {
		t.Fatalf("exec %q: %v", sqlText, err)
	}
}

func TestNewRepositoryEmptyDSN(t *testing.T) {
	if _, err := NewRepository(context.Background(), Config{}); err == nil {
		t.Fatal("NewRepository accepted an empty DSN")
	}
}

func TestCopyFromAndQuery(t *testing.T) {
	ctx := context.Background()
	repo := newMemDB(t)
	mustExec(t, repo, "CREATE TABLE items (id BIGINT, name TEXT, price DOUBLE PRECISION)")

	rows := [][]any{
		{int64(1), "apple", 1.50},
		{int64(2), nil, 2.00},
	}
	n, err := repo.CopyFrom(ctx, "items", []string{"id", "name", "price"}, rows)
	if err != nil {
		t.Fatalf("CopyFrom: %v", err)
	}
	if n != 2 {
		t.Errorf("inserted = %d, want 2", n)
	}

	rs, err := repo.Query(ctx, "SELECT id, name, price FROM items ORDER BY id")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(rs.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rs.Rows))
	}
	if rs.Rows[0][1] != "apple" {
		t.Errorf("name = %v (%T), want string apple", rs.Rows[0][1], rs.Rows[0][1])
	}
	if rs.Rows[1][1] != nil {
		t.Errorf("NULL name = %v, want nil", rs.Rows[1][1])
	}
	if rs.Rows[0][2] != 1.50 {
		t.Errorf("price = %v, want 1.5", rs.Rows[0][2])
	}
}

func TestCopyFromRowWidthMismatch(t *testing.T) {
	ctx := context.Background()
	repo := newMemDB(t)
	mustExec(t, repo, "CREATE TABLE items (id BIGINT, name TEXT)")

	_, err := repo.CopyFrom(ctx, "items", []string{"id", "name"}, [][]any{{int64(1)}})
	if err == nil {
		t.Fatal("CopyFrom accepted a short row")
	}
}

func TestCopyFromEmpty(t *testing.T) {
	repo := newMemDB(t)
	n, err := repo.CopyFrom(context.Background(), "missing", []string{"id"}, nil)
	if err != nil {
		t.Fatalf("CopyFrom with no rows: %v", err)
	}
	if n != 0 {
		t.Errorf("inserted = %d, want 0", n)
	}
}

func TestExecAllIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := newMemDB(t)
	mustExec(t, repo, "CREATE TABLE keep (id BIGINT)")
	mustExec(t, repo, "INSERT INTO keep VALUES (1)")

	// The failing statement rolls back the whole batch, including the drop.
	err := repo.ExecAll(ctx, []string{
		"DROP TABLE keep",
		"CREATE TABLE keep AS SELECT no_such_column FROM nowhere",
	})
	if err == nil {
		t.Fatal("ExecAll succeeded with a broken statement")
	}

	rs, err := repo.Query(ctx, "SELECT COUNT(*) FROM keep")
	if err != nil {
		t.Fatalf("keep table gone after rollback: %v", err)
	}
	if rs.Rows[0][0] != int64(1) {
		t.Errorf("keep count = %v, want 1", rs.Rows[0][0])
	}
}

func TestExecAllSkipsBlankStatements(t *testing.T) {
	repo := newMemDB(t)
	err := repo.ExecAll(context.Background(), []string{"", "  ", "CREATE TABLE t (id BIGINT)"})
	if err != nil {
		t.Fatalf("ExecAll: %v", err)
	}
	if err := repo.Exec(context.Background(), "INSERT INTO t VALUES (1)"); err != nil {
		t.Fatalf("table not created: %v", err)
	}
}
