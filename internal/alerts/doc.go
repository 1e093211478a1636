// Package alerts implements the rule evaluation engine and webhook delivery
// for unit-health alerting. Rules are evaluated against a unit's status
// after every ingestion; webhooks are delivered to Slack, Teams, or generic
// HTTP targets when a rule fires or resolves.
package alerts
