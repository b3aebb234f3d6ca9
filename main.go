package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/jamiealquiza/envy"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type config struct {
	destinationBucket        *string
	region                   *string
	endpoint                 *string
	accessKey                *string
	secretKey                *string
	insecure                 *bool
	sqsName                  *string
	sqsPollTimeout           *int64
	sqsPollMaxMessages       *int64
	doneAfterCountEmptyPolls *int
	metricsAddr              *string
	logVerbose               *bool
	lambdaMode               *bool
}

type objectStore interface {
	MetadataLookup
	ObjectWriter
}

func newConfig(fs *flag.FlagSet) config {
	return config{
		fs.String("bucket", "", "Name of the S3 bucket to store result records [MANDATORY]"),
		fs.String("region", "", "AWS region, defaults to the SDK's region resolution"),
		fs.String("endpoint", "", "S3-compatible endpoint (host:port), uses AWS S3 when empty"),
		fs.String("accesskey", "", "Access key for the S3-compatible endpoint"),
		fs.String("secretkey", "", "Secret key for the S3-compatible endpoint"),
		fs.Bool("insecure", false, "Use plain HTTP for the S3-compatible endpoint"),
		fs.String("sqs", "", "Name of the SQS queue to poll [MANDATORY outside Lambda]"),
		fs.Int64("polltimeout", 10, "SQS slow poll timeout, 1-20"),
		fs.Int64("pollmessages", 10, "SQS maximum messages per poll, 1-10"),
		fs.Int("emptypolls", 3, "How many consecutive empty polls before exiting, 0 polls forever"),
		fs.String("metrics", "", "Address to serve Prometheus metrics on in poll mode, e.g. :9090"),
		fs.Bool("verbose", false, "Show detailed information during run"),
		fs.Bool("lambda", false, "Run as a Lambda handler (automatic when AWS_LAMBDA_FUNCTION_NAME is set)"),
	}
}

// applyEnvFallback accepts the variable names used by existing deployments.
func (c config) applyEnvFallback() {
	if *c.destinationBucket == "" {
		*c.destinationBucket = os.Getenv("DESTINATION_BUCKET")
	}
}

func (c config) isLambda() bool {
	return *c.lambdaMode || os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

func (c config) validate() error {
	if *c.destinationBucket == "" {
		return errors.New("destination bucket is required (-bucket, SCAN_BUCKET or DESTINATION_BUCKET)")
	}
	if c.isLambda() {
		return nil
	}
	switch {
	case *c.sqsName == "":
		return errors.New("-sqs is required outside Lambda")
	case *c.sqsPollTimeout < 1 || *c.sqsPollTimeout > 20:
		return errors.Errorf("-polltimeout must be 1-20, got %d", *c.sqsPollTimeout)
	case *c.sqsPollMaxMessages < 1 || *c.sqsPollMaxMessages > 10:
		return errors.Errorf("-pollmessages must be 1-10, got %d", *c.sqsPollMaxMessages)
	case *c.doneAfterCountEmptyPolls < 0:
		return errors.Errorf("-emptypolls must be 0 or more, got %d", *c.doneAfterCountEmptyPolls)
	}
	return nil
}

func newSession(conf config) (*session.Session, error) {
	awsConf := aws.NewConfig()
	if *conf.region != "" {
		awsConf = awsConf.WithRegion(*conf.region)
	}
	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *awsConf,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, errors.Wrap(err, "AWS Session Error")
	}
	return sess, nil
}

func newStore(conf config, sess *session.Session) (objectStore, error) {
	if *conf.endpoint != "" {
		return NewMinioStore(*conf.endpoint, *conf.accessKey, *conf.secretKey, *conf.region, !*conf.insecure)
	}
	return NewS3Store(sess), nil
}

func main() {

	// a local .env is optional
	_ = godotenv.Load()

	conf := newConfig(flag.CommandLine)
	envy.Parse("SCAN")
	flag.Parse()
	conf.applyEnvFallback()

	if err := conf.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	logger := logInit(conf)

	sess, err := newSession(conf)
	if err != nil {
		logger.Fatal().Err(err).Msg("Startup failed")
	}

	store, err := newStore(conf, sess)
	if err != nil {
		logger.Fatal().Err(err).Msg("Startup failed")
	}

	processor, err := NewProcessor(store, store, *conf.destinationBucket, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Startup failed")
	}

	if conf.isLambda() {
		lambda.Start(NewHandler(processor).Handle)
		return
	}

	if err := runPollMode(conf, sess, processor, logger); err != nil {
		logger.Fatal().Err(err).Msg("Poll mode failed")
	}
}
