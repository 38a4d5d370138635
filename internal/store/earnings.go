package store

import (
	"context"
	"database/sql"

	"orderrelay/internal/models"
)

func (s *Store) GetEarningsRecord(ctx context.Context, restaurantID string) (*models.EarningsRecord, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT restaurant_id, restaurant_name, restaurant_phone, restaurant_email,
			total_lifetime_earnings, total_completed_orders, commission_rate,
			total_commission_paid, has_bank_details, bank_account_number,
			bank_ifsc_code, bank_account_holder_name, upi_id, data_sent_by,
			last_synced_at, sync_status
		FROM restaurant_earnings WHERE restaurant_id=$1
	`, restaurantID)

	var e models.EarningsRecord
	var phone, email, bankAccount, ifsc, holder, upi, sentBy sql.NullString

	err := row.Scan(
		&e.RestaurantID,
		&e.RestaurantName,
		&phone,
		&email,
		&e.TotalLifetimeEarnings,
		&e.TotalCompletedOrders,
		&e.CommissionRate,
		&e.TotalCommissionPaid,
		&e.HasBankDetails,
		&bankAccount,
		&ifsc,
		&holder,
		&upi,
		&sentBy,
		&e.LastSyncedAt,
		&e.SyncStatus,
	)
	if err != nil {
		return nil, err
	}

	if phone.Valid {
		e.RestaurantPhone = &phone.String
	}
	if email.Valid {
		e.RestaurantEmail = &email.String
	}
	if bankAccount.Valid {
		e.BankAccountNumber = &bankAccount.String
	}
	if ifsc.Valid {
		e.BankIFSCCode = &ifsc.String
	}
	if holder.Valid {
		e.BankAccountHolderName = &holder.String
	}
	if upi.Valid {
		e.UPIID = &upi.String
	}
	if sentBy.Valid {
		e.DataSentBy = &sentBy.String
	}
	return &e, nil
}

// UpsertEarningsRecord seeds or refreshes the per-restaurant snapshot row.
func (s *Store) UpsertEarningsRecord(ctx context.Context, e *models.EarningsRecord) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO restaurant_earnings (
			restaurant_id, restaurant_name, restaurant_phone, restaurant_email,
			total_lifetime_earnings, total_completed_orders, commission_rate,
			total_commission_paid, has_bank_details, bank_account_number,
			bank_ifsc_code, bank_account_holder_name, upi_id, data_sent_by,
			last_synced_at, sync_status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		ON CONFLICT (restaurant_id) DO UPDATE SET
			restaurant_name=EXCLUDED.restaurant_name,
			restaurant_phone=EXCLUDED.restaurant_phone,
			restaurant_email=EXCLUDED.restaurant_email,
			commission_rate=EXCLUDED.commission_rate,
			has_bank_details=EXCLUDED.has_bank_details,
			bank_account_number=EXCLUDED.bank_account_number,
			bank_ifsc_code=EXCLUDED.bank_ifsc_code,
			bank_account_holder_name=EXCLUDED.bank_account_holder_name,
			upi_id=EXCLUDED.upi_id,
			data_sent_by=EXCLUDED.data_sent_by,
			last_synced_at=EXCLUDED.last_synced_at,
			sync_status=EXCLUDED.sync_status
	`,
		e.RestaurantID,
		e.RestaurantName,
		e.RestaurantPhone,
		e.RestaurantEmail,
		e.TotalLifetimeEarnings,
		e.TotalCompletedOrders,
		e.CommissionRate,
		e.TotalCommissionPaid,
		e.HasBankDetails,
		e.BankAccountNumber,
		e.BankIFSCCode,
		e.BankAccountHolderName,
		e.UPIID,
		e.DataSentBy,
		e.LastSyncedAt,
		e.SyncStatus,
	)
	return err
}

type BankDetailsUpdate struct {
	BankAccountNumber     *string
	BankIFSCCode          *string
	BankAccountHolderName *string
	UPIID                 *string
}

func (u BankDetailsUpdate) HasAny() bool {
	return u.BankAccountNumber != nil || u.BankIFSCCode != nil ||
		u.BankAccountHolderName != nil || u.UPIID != nil
}

func (s *Store) UpdateBankDetails(ctx context.Context, restaurantID string, u BankDetailsUpdate) error {
	_, err := s.Pool.Exec(ctx, `
		UPDATE restaurant_earnings
		SET bank_account_number=$2, bank_ifsc_code=$3,
			bank_account_holder_name=$4, upi_id=$5, has_bank_details=$6
		WHERE restaurant_id=$1
	`, restaurantID, u.BankAccountNumber, u.BankIFSCCode, u.BankAccountHolderName, u.UPIID, u.HasAny())
	return err
}
