package deploy

import (
	"context"
	"fmt"

	"github.com/marcwilhelm/wpship/internal/report"
)

// runProbe verifies the remote host accepts commands before anything else
// touches it. A probe failure is not retried: if a plain ssh no-op cannot
// get through, neither will rsync or scp.
func (p *Pipeline) runProbe(ctx context.Context, out *report.Outcome, res *report.StageResult) error {
	res.Attempts = 1
	result := p.run(ctx, probeCommand(p.opts.Config))
	if !result.Succeeded {
		return fmt.Errorf("%w: %v", ErrUnreachable, result.Failure())
	}
	return nil
}
