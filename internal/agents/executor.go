package agents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
	log "github.com/sirupsen/logrus"
)

// Task is one unit of model work: a prompt, its expected-output contract,
// and the role that runs it. Ordering is positional in the slice handed to
// Execute.
type Task struct {
	Role           Role
	Description    string
	ExpectedOutput string
}

// Executor runs ordered task lists against registry-bound agents. A model
// failure anywhere in the list aborts the whole call.
type Executor struct {
	registry *Registry
	timeout  time.Duration
}

func NewExecutor(registry *Registry, timeout time.Duration) *Executor {
	return &Executor{registry: registry, timeout: timeout}
}

// Execute runs the tasks in order and returns the final task's output.
// Earlier outputs are threaded into later prompts as prior-step context.
func (e *Executor) Execute(ctx context.Context, tasks []Task) (string, error) {
	if len(tasks) == 0 {
		return "", errors.New("no tasks to execute")
	}

	var thread []string
	var final string
	for i, task := range tasks {
		agent, err := e.registry.Agent(task.Role)
		if err != nil {
			return "", fmt.Errorf("task %d: %w", i, err)
		}

		log.WithFields(log.Fields{
			"task": i,
			"role": task.Role,
		}).Debug("executing task")

		output, err := e.runTask(ctx, agent, task, thread)
		if err != nil {
			return "", fmt.Errorf("task %d (%s): %w", i, task.Role, err)
		}
		thread = append(thread, output)
		final = output
	}
	return final, nil
}

func (e *Executor) runTask(ctx context.Context, agent *Agent, task Task, thread []string) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	messages := []*schema.Message{
		schema.SystemMessage(agent.SystemPrompt()),
		schema.UserMessage(buildTaskPrompt(task, thread)),
	}

	if len(agent.Tools) > 0 {
		return e.runWithTools(ctx, agent, messages)
	}

	reply, err := agent.Model.Generate(ctx, messages)
	if err != nil {
		return "", err
	}
	return reply.Content, nil
}

func (e *Executor) runWithTools(ctx context.Context, agent *Agent, messages []*schema.Message) (string, error) {
	ra, err := react.NewAgent(ctx, &react.AgentConfig{
		MaxStep:          e.registry.maxSteps,
		ToolCallingModel: agent.Model,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: agent.Tools,
		},
		StreamToolCallChecker: ToolCallChecker,
	})
	if err != nil {
		return "", fmt.Errorf("create react agent: %w", err)
	}

	reply, err := ra.Generate(ctx, messages)
	if err != nil {
		return "", err
	}
	return reply.Content, nil
}

func buildTaskPrompt(task Task, thread []string) string {
	var b strings.Builder
	if len(thread) > 0 {
		b.WriteString("Context from preceding steps:\n")
		for _, prior := range thread {
			b.WriteString(prior)
			b.WriteString("\n---\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(task.Description)
	if task.ExpectedOutput != "" {
		b.WriteString("\n\nExpected output: ")
		b.WriteString(task.ExpectedOutput)
	}
	return b.String()
}

// ToolCallChecker inspects a streamed reply for tool calls so the react
// loop knows whether to continue.
func ToolCallChecker(ctx context.Context, sr *schema.StreamReader[*schema.Message]) (bool, error) {
	defer sr.Close()
	for {
		msg, err := sr.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, err
		}
		if len(msg.ToolCalls) > 0 {
			return true, nil
		}
	}
}
