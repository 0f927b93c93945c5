package profile_test

import (
	"context"
	"fmt"

	"github.com/oakmount/ward/failure"
	"github.com/oakmount/ward/profile"
)

func ExampleLoadFromBytes() {
	yaml := `
profiles:
  records-api:
    retry:
      max_attempts: 4
      base_delay: 1ms
    timeout: 5s
`
	file, err := profile.LoadFromBytes([]byte(yaml))
	if err != nil {
		fmt.Println("load:", err)
		return
	}

	p, err := file.Get("records-api")
	if err != nil {
		fmt.Println("get:", err)
		return
	}

	fmt.Println(p.Retry.MaxAttempts, p.Timeout)

	// Output:
	// 4 5s
}

func ExampleProfile_Executor() {
	yaml := `
profiles:
  records-api:
    retry:
      max_attempts: 3
      base_delay: 1ms
`
	file, _ := profile.LoadFromBytes([]byte(yaml))
	p, _ := file.Get("records-api")

	exec := p.Executor()

	attempts := 0
	err := exec.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return failure.New(failure.CodeServer, "upstream hiccup")
		}
		return nil
	})

	fmt.Println(err, attempts)

	// Output:
	// <nil> 3
}
