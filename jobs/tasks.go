package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypePayrollRun is the task type for a scheduled payroll run.
	TaskTypePayrollRun = "payroll:run"
)

// PayrollRunPayload identifies the period and population for a run. A zero
// TargetEmployeeID selects every active employee.
type PayrollRunPayload struct {
	Year             int   `json:"year"`
	Month            int   `json:"month"`
	TargetEmployeeID int64 `json:"targetEmployeeId"`
}

// NewPayrollRunTask constructs an Asynq task.
func NewPayrollRunTask(payload PayrollRunPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePayrollRun, data), nil
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) (*Client, error) {
	client := asynq.NewClient(redisOpts)
	return &Client{client: client}, nil
}

// EnqueuePayrollRun enqueues a payroll run task.
func (c *Client) EnqueuePayrollRun(ctx context.Context, payload PayrollRunPayload) (*asynq.TaskInfo, error) {
	task, err := NewPayrollRunTask(payload)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
