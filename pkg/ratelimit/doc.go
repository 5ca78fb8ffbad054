// Package ratelimit paces calls to the Tumblr API.
//
// Pacer spaces consecutive calls of the same kind (search, profile) by a
// minimum interval using golang.org/x/time/rate limiters with a burst of one.
// Budget counts calls in sliding hourly and daily windows so a long run stays
// under the account's API allowance:
//
//	pacer := ratelimit.NewDefaultPacer()
//	budget := ratelimit.NewBudget(990, 4990, log)
//
//	if err := budget.Acquire(ctx); err != nil {
//	    return err // ctx cancelled or ErrDailyBudgetExhausted
//	}
//	if err := pacer.Wait(ctx, ratelimit.KindSearch); err != nil {
//	    return err
//	}
package ratelimit
