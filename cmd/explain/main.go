// Package main demonstrates what a mempool observer learns from a
// direct swap versus a commit, using a worked sandwich example.
package main

import (
	"context"
	"fmt"
	"os"

	"securelp/internal/amm"
	"securelp/internal/commithash"
	"securelp/internal/domain"
	"securelp/internal/keys"
	"securelp/internal/mempool"
	"securelp/internal/sandwich"
	"securelp/internal/stakepool"
)

func main() {
	victimSwap := uint64(5 * domain.LamportsPerSOL)
	attackerCapital := uint64(500 * domain.LamportsPerSOL)
	pool := amm.NewPool(1000*domain.LamportsPerSOL, 1000*domain.LamportsPerSOL, 30)

	traderKey, err := keys.NewKeypair()
	if err != nil {
		fmt.Fprintf(os.Stderr, "keypair error: %v\n", err)
		os.Exit(1)
	}
	trader := traderKey.Address()

	quote, err := pool.Quote(victimSwap, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "quote error: %v\n", err)
		os.Exit(1)
	}
	minOut := amm.MinOutputForSlippage(quote.AmountOut, 100)

	fmt.Println("=== Why Commit-Reveal Stops Sandwich Attacks ===")
	fmt.Println()
	fmt.Printf("Scenario: a trader swaps %.2f SOL against a %.0f/%.0f SOL pool (0.30%% fee).\n",
		domain.Lamports(victimSwap).SOL(), 1000.0, 1000.0)
	fmt.Printf("Expected output: %.6f SOL, minimum accepted: %.6f SOL.\n",
		domain.Lamports(quote.AmountOut).SOL(), domain.Lamports(minOut).SOL())
	fmt.Println()

	// 1. The unprotected path.
	visible := mempool.ObserveDirectSwap(mempool.DirectSwap{
		Trader:   trader,
		AmountIn: victimSwap,
		AToB:     true,
		MinOut:   minOut,
	})
	fmt.Println("--- Direct swap in the mempool ---")
	fmt.Printf("Observer sees: amount=%.4f SOL, direction=%s, minOut=%.6f SOL\n",
		visible.AmountIn.SOL(), direction(visible.AToB), visible.MinOut.SOL())
	fmt.Printf("Sandwichable: %v\n", visible.CanSandwich)
	fmt.Println()

	plan := sandwich.FindOptimalAttack(sandwich.PendingSwap{
		Trader:   trader,
		AmountIn: victimSwap,
		AToB:     true,
		MinOut:   minOut,
	}, pool, attackerCapital)
	if plan != nil {
		fmt.Printf("An attacker with %.0f SOL front-runs %.4f SOL, lets the victim land\n",
			domain.Lamports(attackerCapital).SOL(), plan.FrontRunAmount.SOL())
		fmt.Printf("at the worsened price, and back-runs for a profit of %.6f SOL.\n", plan.ExpectedProfit.SOL())
		fmt.Printf("The victim receives %.6f SOL less than quoted.\n", plan.VictimExpectedLoss.SOL())
	} else {
		fmt.Println("No profitable attack exists at these sizes.")
	}
	fmt.Println()

	// 2. The protected path.
	details, err := commithash.New(victimSwap, minOut, 100)
	if err != nil {
		fmt.Fprintf(os.Stderr, "commitment error: %v\n", err)
		os.Exit(1)
	}
	hash := commithash.Hash(details)

	committed := mempool.ObserveCommit(mempool.CommitTx{
		Owner:  trader,
		Hash:   hash,
		Amount: victimSwap,
		Kind:   domain.IntentStake,
	})
	commitAddr, bump, err := keys.DeriveCommitmentAddress(trader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "derive commitment address: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("--- Commit in the mempool ---")
	fmt.Printf("Commitment account: %s (bump %d)\n", commitAddr, bump)
	fmt.Printf("Observer sees: digest=%s...\n", committed.CommitmentHex[:16])
	fmt.Printf("               approx amount=%.1f SOL, intent=%s\n",
		committed.ApproxAmount.SOL(), committed.IntentKind)
	fmt.Printf("Sandwichable: %v\n", committed.CanSandwich)
	fmt.Println()
	fmt.Println("The commitment lives at an address derived off the ed25519 curve")
	fmt.Println("from the owner's key, so only the program can ever sign for it.")
	fmt.Println()

	fmt.Println("The digest is SHA-256 over the swap details plus a random 32-byte")
	fmt.Println("nonce, so the exact amount, direction, and minimum output stay")
	fmt.Println("hidden until the reveal. By then the enforced delay has passed and")
	fmt.Println("the front-run window is gone: an attacker who guesses wrong pays")
	fmt.Println("two swap fees for nothing.")
	fmt.Println()

	// 3. The same reveal path fronts the stake pool.
	stake := stakepool.NewPool(50)
	if _, _, err := stake.Deposit(10_000 * domain.LamportsPerSOL); err != nil {
		fmt.Fprintf(os.Stderr, "stake pool error: %v\n", err)
		os.Exit(1)
	}
	stake.AccrueRewards(500 * domain.LamportsPerSOL)

	tokens, fee, err := stakepool.NewExecutor(stake).Quote(context.Background(), victimSwap, domain.IntentStake)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stake quote error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("--- Staking behind the same commitment ---")
	fmt.Printf("A %.2f SOL stake quotes %.6f pool tokens (fee %.6f SOL) at the\n",
		domain.Lamports(victimSwap).SOL(), domain.Lamports(tokens).SOL(), domain.Lamports(fee).SOL())
	fmt.Println("current exchange rate. The executor behind a reveal is an interface,")
	fmt.Println("so stake and unstake intents get the same delay and hash check as")
	fmt.Println("swaps, and large staking flows are just as invisible to the mempool.")
}

func direction(aToB bool) string {
	if aToB {
		return "A->B"
	}
	return "B->A"
}
