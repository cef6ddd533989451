package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Reports ledger inconsistencies the API never repairs on its own:
// referral rows pointing at users that no longer exist, and commission
// sums that disagree with the transaction ledger.
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Build connection string
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName)

	// Connect to database
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	log.Println("Connected to database successfully")

	// Referral rows whose referrer is gone
	rows, err := db.Query(`
		SELECT r.id, r.referrer_id, r.referred_id, r.level, r.commission
		FROM referrals r
		LEFT JOIN users u ON u.id = r.referrer_id
		WHERE u.id IS NULL`)
	if err != nil {
		log.Fatalf("Failed to query orphaned referrals: %v", err)
	}
	defer rows.Close()

	orphans := 0
	for rows.Next() {
		var id, referrerID, referredID uint
		var level int
		var amount string
		if err := rows.Scan(&id, &referrerID, &referredID, &level, &amount); err != nil {
			log.Fatalf("Failed to scan referral row: %v", err)
		}
		log.Printf("Orphaned referral %d: referrer %d missing (referred %d, level %d, %s FCFA)",
			id, referrerID, referredID, level, amount)
		orphans++
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("Failed to iterate referral rows: %v", err)
	}

	// Commission totals vs the transaction ledger, per referrer
	mismatchRows, err := db.Query(`
		SELECT r.referrer_id, SUM(r.commission) AS referral_total,
		       COALESCE(t.total, 0) AS ledger_total
		FROM referrals r
		LEFT JOIN (
			SELECT user_id, SUM(amount) AS total
			FROM transactions
			WHERE type = 'referral_commission'
			GROUP BY user_id
		) t ON t.user_id = r.referrer_id
		GROUP BY r.referrer_id, t.total
		HAVING SUM(r.commission) <> COALESCE(t.total, 0)`)
	if err != nil {
		log.Fatalf("Failed to query commission totals: %v", err)
	}
	defer mismatchRows.Close()

	mismatches := 0
	for mismatchRows.Next() {
		var referrerID uint
		var referralTotal, ledgerTotal string
		if err := mismatchRows.Scan(&referrerID, &referralTotal, &ledgerTotal); err != nil {
			log.Fatalf("Failed to scan totals row: %v", err)
		}
		log.Printf("Commission mismatch for referrer %d: referrals say %s, ledger says %s",
			referrerID, referralTotal, ledgerTotal)
		mismatches++
	}
	if err := mismatchRows.Err(); err != nil {
		log.Fatalf("Failed to iterate totals rows: %v", err)
	}

	log.Printf("Integrity report done: %d orphaned referrals, %d commission mismatches", orphans, mismatches)
}
