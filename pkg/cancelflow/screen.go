// Package cancelflow holds the pure parts of the cancellation wizard: screens,
// guards, transitions, answer aggregation and pricing. Nothing here touches
// storage, so every decision can be tested as a plain function.
package cancelflow

type Screen string

const (
	ScreenEntry        Screen = "entry"
	ScreenJobQuestions Screen = "job_questions"
	ScreenFeedback     Screen = "feedback"
	ScreenVisaRouter   Screen = "visa_router"
	ScreenVisaMM       Screen = "visa_mm"
	ScreenVisaNoMM     Screen = "visa_nomm"
	ScreenDownsell     Screen = "downsell"
	ScreenUsage        Screen = "usage"
	ScreenConfirm      Screen = "confirm"
	ScreenAccepted     Screen = "accepted"
	ScreenHelp         Screen = "help"
	ScreenDone         Screen = "done"
)

var screenPaths = map[Screen]string{
	ScreenEntry:        "/cancel",
	ScreenJobQuestions: "/cancel/job",
	ScreenFeedback:     "/cancel/job/feedback",
	ScreenVisaRouter:   "/cancel/reason",
	ScreenVisaMM:       "/cancel/reason/mm",
	ScreenVisaNoMM:     "/cancel/reason/nomm",
	ScreenDownsell:     "/cancel/downsell",
	ScreenUsage:        "/cancel/usage",
	ScreenConfirm:      "/cancel/confirm",
	ScreenAccepted:     "/cancel/accepted",
	ScreenHelp:         "/cancel/final/help",
	ScreenDone:         "/cancel/final/none",
}

// Path is the route of the screen relative to the API base path.
func (s Screen) Path() string {
	if p, ok := screenPaths[s]; ok {
		return p
	}
	return screenPaths[ScreenEntry]
}

func (s Screen) IsValid() bool {
	_, ok := screenPaths[s]
	return ok
}
