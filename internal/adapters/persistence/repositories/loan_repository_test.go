package repositories

import (
	"context"
	"testing"
	"time"

	"pustaka-api/internal/core/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestLoanRepository_CountActiveByMember(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLoanRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `loans` WHERE member_id = \\? AND status IN \\(\\?,\\?\\)").
		WithArgs(7, "pending", "approved").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountActiveByMember(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepository_HasUnpaidFine(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLoanRepository(db)

	t.Run("unpaid fine present", func(t *testing.T) {
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `loans` WHERE member_id = \\? AND is_paid = \\? AND fine_amount > 0").
			WithArgs(7, false).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		has, err := repo.HasUnpaidFine(context.Background(), 7)
		assert.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("all fines paid", func(t *testing.T) {
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `loans`").
			WithArgs(7, false).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		has, err := repo.HasUnpaidFine(context.Background(), 7)
		assert.NoError(t, err)
		assert.False(t, has)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepository_SumUnpaidFines(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLoanRepository(db)

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(fine_amount\\), 0\\) FROM `loans` WHERE member_id = \\? AND is_paid = \\?").
		WithArgs(7, false).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(5000))

	total, err := repo.SumUnpaidFines(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(5000), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func lockedLoanRows(status string, dueDate interface{}) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "book_id", "member_id", "status", "due_date", "return_date", "fine_amount", "is_paid"}).
		AddRow(42, 1, 7, status, dueDate, nil, 0, false)
}

func TestLoanRepository_Approve(t *testing.T) {
	borrowDate := time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC)
	rules := domain.DefaultFineRules()

	t.Run("pending loan approved, stock decremented", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewLoanRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT \\* FROM `loans` WHERE `loans`.`id` = \\?.*FOR UPDATE").
			WithArgs(42).
			WillReturnRows(lockedLoanRows("pending", nil))
		mock.ExpectExec("UPDATE `books` SET `stock`=stock - 1 WHERE \\(id = \\? AND stock > 0\\)").
			WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE `loans` SET").
			WithArgs(borrowDate, borrowDate.AddDate(0, 0, 7), "approved", sqlmock.AnyArg(), 42).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Approve(context.Background(), 42, borrowDate, rules))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("last copy already gone", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewLoanRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT \\* FROM `loans` WHERE `loans`.`id` = \\?.*FOR UPDATE").
			WithArgs(42).
			WillReturnRows(lockedLoanRows("pending", nil))
		mock.ExpectExec("UPDATE `books` SET `stock`=stock - 1 WHERE \\(id = \\? AND stock > 0\\)").
			WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Approve(context.Background(), 42, borrowDate, rules), domain.ErrOutOfStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("loan no longer pending", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewLoanRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT \\* FROM `loans` WHERE `loans`.`id` = \\?.*FOR UPDATE").
			WithArgs(42).
			WillReturnRows(lockedLoanRows("approved", nil))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Approve(context.Background(), 42, borrowDate, rules), domain.ErrInvalidTransition)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLoanRepository_Return(t *testing.T) {
	dueDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	returnDate := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	rules := domain.DefaultFineRules()

	t.Run("fine fixed and stock restored in one transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewLoanRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT \\* FROM `loans` WHERE `loans`.`id` = \\?.*FOR UPDATE").
			WithArgs(42).
			WillReturnRows(lockedLoanRows("approved", dueDate))
		mock.ExpectExec("UPDATE `loans` SET").
			WithArgs(int64(4000), returnDate, "returned", sqlmock.AnyArg(), 42).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE `books` SET `stock`=stock \\+ 1 WHERE id = \\?").
			WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Return(context.Background(), 42, returnDate, rules))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returned loan stays returned", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewLoanRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT \\* FROM `loans` WHERE `loans`.`id` = \\?.*FOR UPDATE").
			WithArgs(42).
			WillReturnRows(lockedLoanRows("returned", dueDate))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Return(context.Background(), 42, returnDate, rules), domain.ErrInvalidTransition)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLoanRepository_Reject(t *testing.T) {
	t.Run("pending loan rejected", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewLoanRepository(db)

		mock.ExpectExec("UPDATE `loans` SET").
			WithArgs("rejected", sqlmock.AnyArg(), 42, "pending").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Reject(context.Background(), 42))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("loan no longer pending", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewLoanRepository(db)

		mock.ExpectExec("UPDATE `loans` SET").
			WithArgs("rejected", sqlmock.AnyArg(), 42, "pending").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Reject(context.Background(), 42), domain.ErrInvalidTransition)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLoanRepository_DeletePending(t *testing.T) {
	t.Run("zero rows means not cancellable", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewLoanRepository(db)

		mock.ExpectExec("DELETE FROM `loans` WHERE id = \\? AND status = \\?").
			WithArgs(42, "pending").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.DeletePending(context.Background(), 42), domain.ErrNotCancellable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLoanRepository_MarkPaid(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLoanRepository(db)

	mock.ExpectExec("UPDATE `loans` SET").
		WithArgs(true, sqlmock.AnyArg(), 42).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkPaid(context.Background(), 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}
