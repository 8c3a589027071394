package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tanabe1478/git-shadow/internal/ops"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Restore divergence hidden by a previous suspend",
	Args:  cobra.NoArgs,
	RunE:  runResume,
}

func runResume(cmd *cobra.Command, args []string) error {
	c, err := newContext()
	if err != nil {
		return err
	}

	result, err := ops.Resume(c)
	if err != nil {
		return renderErr(err)
	}

	if len(result.Resumed) == 0 {
		fmt.Println("nothing suspended")
		return nil
	}
	for _, p := range result.Resumed {
		fmt.Printf("resumed %s\n", p)
	}
	return nil
}
