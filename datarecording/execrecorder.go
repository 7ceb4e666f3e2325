package datarecording

import (
	"os"
	"strings"
	"time"
)

const execTable = "exec_info"

type execInfo struct {
	Property string
	Value    string
}

// ExecRecorder records how a simulation was executed.
type ExecRecorder struct {
	recorder DataRecorder
	entries  []execInfo
}

// NewExecRecorder creates an ExecRecorder and its table.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	recorder.CreateTable(execTable, execInfo{})

	return &ExecRecorder{recorder: recorder}
}

// Start records the start time, the command line, and the working directory.
func (e *ExecRecorder) Start() {
	e.Add("Start Time", now())
	e.Add("Command", strings.Join(os.Args, " "))

	wd, err := os.Getwd()
	if err == nil {
		e.Add("Working Directory", wd)
	}
}

// Add records a property of the execution.
func (e *ExecRecorder) Add(property, value string) {
	e.entries = append(e.entries, execInfo{property, value})
}

// End writes all the recorded properties along with the end time.
func (e *ExecRecorder) End() {
	e.Add("End Time", now())

	for _, entry := range e.entries {
		e.recorder.InsertData(execTable, entry)
	}

	e.entries = nil

	e.recorder.Flush()
}

func now() string {
	return time.Now().Format("2006-01-02 15:04:05.000000000")
}
