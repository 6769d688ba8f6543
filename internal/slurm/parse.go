package slurm

import (
	"fmt"
	"regexp"
	"strings"
)

// infoKeyRe matches the keys of scontrol's "Key=Value Key=Value ..." job
// description. Keys may contain colons (e.g. "ReqS:C:T").
var infoKeyRe = regexp.MustCompile(`(?:^|\s+)([A-Za-z:]+)=`)

// JobInfo holds the metadata sfollow needs from 'scontrol show job',
// plus the remaining raw fields.
type JobInfo struct {
	ID     string
	Name   string
	StdOut string
	StdErr string

	fields map[string]string
}

// Field returns the raw value of an arbitrary scontrol field, or "" when
// the field was not present.
func (i JobInfo) Field(key string) string {
	return i.fields[key]
}

// ParseJobInfo parses the output of 'scontrol show job <id>' into a JobInfo.
// scontrol emits space-separated Key=Value pairs; values may contain spaces
// (e.g. Command=/bin/sleep 60), so each value runs until the next key.
func ParseJobInfo(out string) (JobInfo, error) {
	fields := make(map[string]string)

	matches := infoKeyRe.FindAllStringSubmatchIndex(out, -1)
	for n, m := range matches {
		key := out[m[2]:m[3]]
		end := len(out)
		if n+1 < len(matches) {
			end = matches[n+1][0]
		}
		fields[key] = strings.TrimSpace(out[m[1]:end])
	}

	if fields["JobId"] == "" {
		return JobInfo{}, fmt.Errorf("no JobId field in scontrol output")
	}

	return JobInfo{
		ID:     fields["JobId"],
		Name:   fields["JobName"],
		StdOut: fields["StdOut"],
		StdErr: fields["StdErr"],
		fields: fields,
	}, nil
}

// ParseStates parses squeue '--format=%i %T' output into a job ID to state
// map.
func ParseStates(out string) map[string]State {
	states := make(map[string]State)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		id, state, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		states[id] = State(strings.TrimSpace(state))
	}
	return states
}

// ParseQueue parses squeue '--format=%i %j' output into (id, name) pairs,
// preserving the scheduler's ordering.
func ParseQueue(out string) [][2]string {
	var jobs [][2]string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		id, name, _ := strings.Cut(line, " ")
		jobs = append(jobs, [2]string{id, strings.TrimSpace(name)})
	}
	return jobs
}
