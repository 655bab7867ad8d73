// file: websocket/metrics.go
package websocket

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
	"lanmomo-web/logger"
)

// Namespace for all site metrics
const metricsNamespace = "LanMomoWeb"

// Metrics records view activity.
type Metrics interface {
	OpenViews(count int)
	SeatMapRefresh(latency time.Duration, err error)
	Reservation(view string, err error)
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) OpenViews(int)                       {}
func (NoopMetrics) SeatMapRefresh(time.Duration, error) {}
func (NoopMetrics) Reservation(string, error)           {}

// CloudWatchMetrics publishes to CloudWatch. Calls return immediately; the
// PutMetricData request runs in the background.
type CloudWatchMetrics struct {
	client cloudwatchiface.CloudWatchAPI
	now    func() time.Time
	// publish is swapped for a synchronous call in tests
	publish func(func())
}

// NewCloudWatchMetrics creates a publisher for region.
func NewCloudWatchMetrics(region string) (*CloudWatchMetrics, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, err
	}
	return newCloudWatchMetrics(cloudwatch.New(sess)), nil
}

func newCloudWatchMetrics(client cloudwatchiface.CloudWatchAPI) *CloudWatchMetrics {
	return &CloudWatchMetrics{
		client:  client,
		now:     time.Now,
		publish: func(fn func()) { go fn() },
	}
}

// OpenViews pushes the current websocket view count
func (m *CloudWatchMetrics) OpenViews(count int) {
	m.putMetric("OpenViews", float64(count), cloudwatch.StandardUnitCount, nil)
}

// SeatMapRefresh pushes the latency of a seat map refresh, and a failure count
// when it failed
func (m *CloudWatchMetrics) SeatMapRefresh(latency time.Duration, err error) {
	m.putMetric("SeatMapRefreshLatencyMs", float64(latency.Milliseconds()), cloudwatch.StandardUnitMilliseconds, nil)
	if err != nil {
		m.putMetric("SeatMapRefreshFailures", 1, cloudwatch.StandardUnitCount, nil)
	}
}

// Reservation counts buy attempts per view and outcome
func (m *CloudWatchMetrics) Reservation(view string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	m.putMetric("Reservations", 1, cloudwatch.StandardUnitCount, map[string]string{
		"View":    view,
		"Outcome": outcome,
	})
}

// -----------------------------------------------------------
// internal helper function to package up CloudWatch calls
// -----------------------------------------------------------
func (m *CloudWatchMetrics) putMetric(metricName string, value float64, unit string, dims map[string]string) {
	datum := &cloudwatch.MetricDatum{
		MetricName: aws.String(metricName),
		Timestamp:  aws.Time(m.now()),
		Value:      aws.Float64(value),
		Unit:       aws.String(unit),
	}
	for name, v := range dims {
		datum.Dimensions = append(datum.Dimensions, &cloudwatch.Dimension{
			Name:  aws.String(name),
			Value: aws.String(v),
		})
	}

	m.publish(func() {
		_, err := m.client.PutMetricData(&cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(metricsNamespace),
			MetricData: []*cloudwatch.MetricDatum{datum},
		})
		if err != nil {
			logger.Error.Printf("[putMetric] CloudWatch metric failed (%s): %v", metricName, err)
		}
	})
}
