package cli

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/TheusHen/curvepool/curvepool"
	"github.com/TheusHen/curvepool/curvepool/errors"
	"github.com/TheusHen/curvepool/curvepool/jobqueue"
	"github.com/TheusHen/curvepool/curvepool/primitive"
)

type benchFlags struct {
	requests    int
	concurrency int
	buckets     int
}

func newBenchCmd(a *app) *cobra.Command {
	flags := &benchFlags{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure pool throughput and check result integrity",
		Long: `Submit many concurrent key agreements and check that every result reaches
the request that asked for it.

With --buckets, requests are spread over that many serial job queues, so
requests in one bucket complete in submission order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("requests") {
				flags.requests = a.cfg.Bench.Requests
			}
			return runBench(cmd, a, flags)
		},
	}
	cmd.Flags().IntVarP(&flags.requests, "requests", "n", 0, "number of requests (default bench.requests)")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", 64, "requests in flight at once")
	cmd.Flags().IntVar(&flags.buckets, "buckets", 0, "serialize requests over this many job queues (0 disables)")
	return cmd
}

func runBench(cmd *cobra.Command, a *app, flags *benchFlags) error {
	if flags.requests < 1 || flags.concurrency < 1 || flags.buckets < 0 {
		return errors.NewArgument("bench", "requests and concurrency must be positive")
	}

	secrets, want, err := benchVectors(flags.requests)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Bench.Timeout)
	defer cancel()

	e, err := a.engine(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	var q *jobqueue.Queue
	if flags.buckets > 0 {
		q = jobqueue.New(a.log)
	}

	var completed, faults atomic.Int64
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(flags.concurrency)
	for i := range secrets {
		g.Go(func() error {
			out, err := benchOne(gctx, e, q, flags.buckets, i, secrets[i])
			switch {
			case errors.IsInfrastructure(err):
				faults.Add(1)
				return nil
			case err != nil:
				return err
			case !bytes.Equal(out, want[i]):
				return errors.Wrapf(errors.ErrBenchMismatch, "request %d", i)
			}
			completed.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	a.log.Debug().Interface("stats", e.Stats()).Msg("bench finished")
	return render(cmd.OutOrStdout(), a.flags.Output,
		field{"requests", flags.requests},
		field{"completed", completed.Load()},
		field{"faults", faults.Load()},
		field{"workers", e.Stats().Workers},
		field{"elapsed", elapsed.String()},
		field{"ops_per_sec", fmt.Sprintf("%.0f", float64(completed.Load())/elapsed.Seconds())},
	)
}

// benchVectors returns random secrets and their public keys, computed
// synchronously so the pool's answers can be checked.
func benchVectors(n int) ([][]byte, [][]byte, error) {
	ref := primitive.NewCurve25519(nil)
	secrets := make([][]byte, n)
	want := make([][]byte, n)
	for i := range secrets {
		secrets[i] = make([]byte, primitive.KeySize)
		if _, err := rand.Read(secrets[i]); err != nil {
			return nil, nil, errors.Wrap(err, "read secret")
		}
		out, st := ref.ScalarMult(secrets[i], primitive.Basepoint[:])
		if !st.OK() {
			return nil, nil, &errors.OperationError{Op: "bench", Status: int(st)}
		}
		want[i] = out
	}
	return secrets, want, nil
}

func benchOne(ctx context.Context, e *curvepool.Engine, q *jobqueue.Queue, buckets, i int, secret []byte) ([]byte, error) {
	run := func(ctx context.Context) ([]byte, error) {
		f, err := e.ScalarMultiplyFuture(secret, primitive.Basepoint[:])
		if err != nil {
			return nil, err
		}
		return f.Await(ctx)
	}
	if q == nil {
		return run(ctx)
	}
	return jobqueue.Do(ctx, q, fmt.Sprintf("bucket-%d", i%buckets), run)
}
