package main

import (
	"hearthcorpus/cmd/hearthcorpus/commands"
	"hearthcorpus/lib/serviceutil"
	"hearthcorpus/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "hearthcorpus")
	telemetry.InitSlog(false)
	telemetry.InstrumentPerfStats(ctx)
	commands.ExecuteContext(ctx)
}
