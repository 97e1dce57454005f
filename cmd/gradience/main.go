// Command gradience is the single-shot DeFi action dispatcher: it reads
// exactly one JSON request object from stdin, dispatches it to the
// matching action handler, and writes exactly one JSON response object to
// stdout before exiting. There is no server loop, no streaming, and no
// multi-request session — every invocation is a fresh process.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/r3e-network/defi-dispatcher/internal/actions"
	"github.com/r3e-network/defi-dispatcher/internal/codec"
	"github.com/r3e-network/defi-dispatcher/internal/dispatch"
	"github.com/r3e-network/defi-dispatcher/internal/logging"
	"github.com/r3e-network/defi-dispatcher/internal/policy"
)

func main() {
	os.Exit(run())
}

func run() int {
	log := logging.NewFromEnv("gradience")

	p, err := policy.Load()
	if err != nil {
		log.WithFields(map[string]interface{}{"error": err.Error()}).Error("failed to load policy")
		return writeFatal(log, "policy load failed: %v", err)
	}

	req, err := codec.Decode(os.Stdin)
	if err != nil {
		return writeFatal(log, "malformed request: %v", err)
	}

	env := dispatch.NewEnv(p)
	reg := actions.Handlers()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	resp := dispatch.Dispatch(ctx, env, reg, req.Action, req.Params)
	elapsed := time.Since(start)

	errCode := 0
	if resp["status"] == "error" {
		if code, ok := resp["code"].(int); ok {
			errCode = code
		}
	}
	log.Invocation(req.Action, elapsed, errCode)

	if encErr := codec.Encode(os.Stdout, resp); encErr != nil {
		log.WithFields(map[string]interface{}{"error": encErr.Error()}).Error("failed to encode response")
		return 1
	}
	return 0
}

// writeFatal emits a minimal error envelope for failures that happen
// before dispatch ever runs (bad policy, unparsable stdin) and returns the
// process exit code.
func writeFatal(log *logging.Logger, format string, args ...interface{}) int {
	msg := fmt.Sprintf(format, args...)
	resp := map[string]interface{}{"status": "error", "code": 2, "error": msg}
	_ = codec.Encode(os.Stdout, resp)
	log.Invocation("unknown", 0, 2)
	return 1
}
