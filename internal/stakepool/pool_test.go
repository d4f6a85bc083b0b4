package stakepool

import (
	"context"
	"errors"
	"testing"

	"securelp/internal/domain"
)

func TestExchangeRateEmptyPool(t *testing.T) {
	p := NewPool(0)
	if rate := p.ExchangeRate(); rate != RateScale {
		t.Errorf("ExchangeRate() = %d, want 1:1 (%d)", rate, RateScale)
	}
}

func TestFirstDepositIsOneToOne(t *testing.T) {
	p := NewPool(0)

	tokens, fee, err := p.Deposit(1_000_000_000)
	if err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}
	if tokens != 1_000_000_000 {
		t.Errorf("tokens = %d, want 1:1", tokens)
	}
	if fee != 0 {
		t.Errorf("fee = %d, want 0", fee)
	}
	if rate := p.ExchangeRate(); rate != RateScale {
		t.Errorf("ExchangeRate() = %d after first deposit, want %d", rate, RateScale)
	}
}

func TestDepositFee(t *testing.T) {
	p := NewPool(100) // 1%

	tokens, fee, err := p.Deposit(1_000_000_000)
	if err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}
	if fee != 10_000_000 {
		t.Errorf("fee = %d, want 10000000", fee)
	}
	if tokens != 990_000_000 {
		t.Errorf("tokens = %d, want net 1:1", tokens)
	}
}

func TestRewardsRaiseExchangeRate(t *testing.T) {
	p := NewPool(0)
	if _, _, err := p.Deposit(1_000_000_000); err != nil {
		t.Fatal(err)
	}

	// 10% rewards: the rate moves from 1.0 to 1.1.
	p.AccrueRewards(100_000_000)
	if rate := p.ExchangeRate(); rate != RateScale*11/10 {
		t.Errorf("ExchangeRate() = %d, want %d", rate, RateScale*11/10)
	}

	// A new depositor gets fewer tokens for the same SOL.
	tokens, _, err := p.Deposit(1_100_000_000)
	if err != nil {
		t.Fatal(err)
	}
	if tokens != 1_000_000_000 {
		t.Errorf("tokens = %d, want 1000000000 at 1.1 rate", tokens)
	}
}

func TestWithdraw(t *testing.T) {
	p := NewPool(0)
	if _, _, err := p.Deposit(2_000_000_000); err != nil {
		t.Fatal(err)
	}

	lamports, err := p.Withdraw(500_000_000)
	if err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	if lamports != 500_000_000 {
		t.Errorf("lamports = %d, want 500000000 at 1:1", lamports)
	}
}

func TestWithdrawErrors(t *testing.T) {
	p := NewPool(0)
	if _, _, err := p.Deposit(1_000_000_000); err != nil {
		t.Fatal(err)
	}

	if _, err := p.Withdraw(0); !errors.Is(err, ErrInsufficientInput) {
		t.Errorf("Withdraw(0) error = %v, want ErrInsufficientInput", err)
	}
	if _, err := p.Withdraw(2_000_000_000); !errors.Is(err, ErrInsufficientReserve) {
		t.Errorf("over-withdraw error = %v, want ErrInsufficientReserve", err)
	}

	// Rewards are staked, not in the reserve: withdrawals above the
	// reserve fail even when tokens are backed.
	p.AccrueRewards(1_000_000_000)
	if _, err := p.Withdraw(1_000_000_000); !errors.Is(err, ErrInsufficientReserve) {
		t.Errorf("reserve-exceeding withdraw error = %v, want ErrInsufficientReserve", err)
	}
}

func TestExecutorQuoteMatchesExecute(t *testing.T) {
	ctx := context.Background()
	p := NewPool(50)
	if _, _, err := p.Deposit(10_000_000_000); err != nil {
		t.Fatal(err)
	}
	p.AccrueRewards(500_000_000)
	e := NewExecutor(p)

	quoted, quotedFee, err := e.Quote(ctx, 1_000_000_000, domain.IntentStake)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	out, fee, err := e.Execute(ctx, 1_000_000_000, domain.IntentStake)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != quoted || fee != quotedFee {
		t.Errorf("Execute (%d, %d) != Quote (%d, %d)", out, fee, quoted, quotedFee)
	}
}

func TestExecutorUnstake(t *testing.T) {
	ctx := context.Background()
	p := NewPool(0)
	if _, _, err := p.Deposit(5_000_000_000); err != nil {
		t.Fatal(err)
	}
	e := NewExecutor(p)

	quoted, fee, err := e.Quote(ctx, 1_000_000_000, domain.IntentUnstake)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if fee != 0 {
		t.Errorf("unstake fee = %d, want 0", fee)
	}
	out, _, err := e.Execute(ctx, 1_000_000_000, domain.IntentUnstake)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != quoted {
		t.Errorf("Execute = %d, Quote = %d", out, quoted)
	}
}

func TestDepositZero(t *testing.T) {
	p := NewPool(0)
	if _, _, err := p.Deposit(0); !errors.Is(err, ErrInsufficientInput) {
		t.Errorf("Deposit(0) error = %v, want ErrInsufficientInput", err)
	}
}
