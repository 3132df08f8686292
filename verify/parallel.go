package verify

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/nvotes/juvenal-lib/field"
	"github.com/nvotes/juvenal-lib/group"
	"github.com/nvotes/juvenal-lib/record"
	"github.com/nvotes/juvenal-lib/recorder"
)

// VerifyParallel runs the same walk as Election.Verify, except that cast
// ballots and contest tallies (the two large, independent collections) are
// each verified on a bounded worker pool, one recorder.CollectingRecorder
// per item, merged back into rec afterward in input order. Spoiled ballots
// and the election-level predicates still run serially on rec directly,
// since the former are usually few and the latter have cross-item
// dependencies (the joint public key). rec must be a *recorder.CollectingRecorder;
// merging independently-collected subtrees back in order requires it.
func (e *Election) VerifyParallel(rec *recorder.CollectingRecorder) error {
	if !e.Opts.Parallel {
		return e.Verify(rec)
	}

	grp, err := e.group()
	if err != nil {
		return err
	}
	fq := grp.Field()

	if e.SchemaValid != nil {
		rec.Record(*e.SchemaValid, []string{"Election"}, "Schema", "election record matches the declared schema")
	}

	ctx := []string{"Election"}
	n := e.Wire.Parameters.NumTrustees
	t := e.Wire.Parameters.Threshold
	rec.Record(t >= 1 && t <= n, ctx, "ThresholdTrustees", "threshold within trustee count")
	rec.Record(len(e.Wire.TrusteePublicKeys) == n, ctx, "NumPubKeys", "trustee key row count")

	// Re-derive the joint key serially; it gates both parallel phases below.
	jointKey, _ := e.jointPublicKey(rec, ctx, grp, fq)

	total := len(e.Wire.CastBallots) + len(e.Wire.ContestTallies) + len(e.Wire.SpoiledBallots)
	var done atomic.Int32
	tick := func() {
		if e.Opts.Progress != nil {
			e.Opts.Progress(int(done.Add(1)), total)
		}
	}

	ballotRecs := runPool(len(e.Wire.CastBallots), e.Opts.Workers, func(i int) *recorder.CollectingRecorder {
		sub := recorder.NewCollectingRecorder()
		ballotCtx := ctxPush(ctx, fmt.Sprintf("Cast Ballot #%d", i))
		verifyCastBallot(sub, ballotCtx, grp, fq, jointKey, e.Wire.CastBallots[i], e.Wire.ContestTallies, e.Opts)
		tick()
		return sub
	})
	for _, sub := range ballotRecs {
		rec.Merge(sub)
	}

	tallyRecs := runPool(len(e.Wire.ContestTallies), e.Opts.Workers, func(j int) *recorder.CollectingRecorder {
		sub := recorder.NewCollectingRecorder()
		contestCtx := ctxPush(ctx, fmt.Sprintf("Tally, contest #%d", j))
		verifyTallyContest(sub, contestCtx, grp, fq, e.Wire.ContestTallies[j], e.Wire.TrusteePublicKeys, e.Wire.CastBallots, j)
		tick()
		return sub
	})
	for _, sub := range tallyRecs {
		rec.Merge(sub)
	}

	for i, spoiled := range e.Wire.SpoiledBallots {
		spoiledCtx := ctxPush(ctx, fmt.Sprintf("Spoiled ballot #%d", i))
		verifySpoiledBallot(rec, spoiledCtx, grp, fq, spoiled, e.Wire.TrusteePublicKeys, jointKey, e.Opts)
		tick()
	}

	return nil
}

// jointPublicKey recomputes the same product-of-trustee-key-shares check as
// Verify, returning the parsed joint key element for use by the parallel
// phases and whether the product matched it. The element is returned even
// on a mismatch (with false); it is nil only when the declared key could
// not be parsed or is not a group member.
func (e *Election) jointPublicKey(rec recorder.Recorder, ctx []string, grp *group.ModPGroup, fq *field.Field) (*group.Elt, bool) {
	jointPK, errJPK := record.ParseBigInt(e.Wire.JointPublicKey)
	var jointPKElt *group.Elt
	if errJPK == nil {
		jointPKElt, errJPK = grp.Elem(jointPK)
	}

	product := grp.Identity()
	productOK := true
	for i, row := range e.Wire.TrusteePublicKeys {
		trusteeCtx := ctxPush(ctx, fmt.Sprintf("Trustee #%d", i))
		share, ok := verifyTrusteePublicKeys(rec, trusteeCtx, grp, fq, row, e.Wire.Parameters.Threshold)
		if !ok || share == nil {
			productOK = false
			continue
		}
		var err error
		product, err = product.Mul(share)
		if err != nil {
			productOK = false
		}
	}

	matches := productOK && errJPK == nil && product.Equal(jointPKElt)
	rec.Record(matches, ctx, "JointPublicKeyCalculation", "product of trustee public keys matches the declared joint public key")
	if errJPK != nil {
		return nil, false
	}
	return jointPKElt, matches
}

// runPool evaluates work(0..n-1) on a bounded worker pool, returning results
// in input order. workers <= 0 means runtime.GOMAXPROCS(0).
func runPool(n, workers int, work func(i int) *recorder.CollectingRecorder) []*recorder.CollectingRecorder {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	results := make([]*recorder.CollectingRecorder, n)
	if n == 0 {
		return results
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = work(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}
