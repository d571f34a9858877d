package logweave_test

import (
	"fmt"

	"github.com/sensemill/logweave/pkg/logweave"
)

func Example() {
	p, err := logweave.New(logweave.WithLookback(10))
	if err != nil {
		panic(err)
	}

	dom := 1
	err = p.RegisterAll([]logweave.Template{
		{ID: 1, Level: "INFO", Template: "Starting job {job}"},
		{ID: 2, DominatorID: &dom, Level: "INFO", Template: "Job {job} finished with code {code}"},
	})
	if err != nil {
		panic(err)
	}

	for _, line := range []string{
		"Starting job 7",
		"Job 7 finished with code 0",
	} {
		out, err := p.Parse(line)
		if err != nil {
			panic(err)
		}
		fmt.Println(out)
	}
	// Output:
	// map[1:[]]
	// map[2:[7]]
}
