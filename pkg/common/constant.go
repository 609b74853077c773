package common

const (
	EnvKeyGoEnv    string = "GO_ENV"
	EnvKeyLogLevel string = "LOG_LEVEL"
	EnvKeyLogDir   string = "LOG_DIR"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyIOTDBType string = "IOT_DB_TYPE"
	EnvKeyIOTDbPath string = "IOT_DB_PATH"
	EnvKeyIOTDbDSN  string = "IOT_DB_DSN"

	EnvKeyIOTHttpHostPort string = "IOT_HTTP_HOST_PORT"
	EnvKeyIOTGrpcHostPort string = "IOT_GRPC_HOST_PORT"

	EnvKeyIOTDefaultRate  string = "IOT_DEFAULT_RATE"
	EnvKeyIOTDefaultBurst string = "IOT_DEFAULT_BURST"

	EnvKeyMQTTBrokerHost       string = "MQTT_BROKER_HOST"
	EnvKeyMQTTBrokerPort       string = "MQTT_BROKER_PORT"
	EnvKeyMQTTAutoConnectUser  string = "MQTT_AUTOCONNECT_USER_ID"
	EnvKeyMonitorIntervalSecs  string = "MONITOR_INTERVAL_SECONDS"
	EnvKeyCORSAllowedOrigins   string = "CORS_ALLOWED_ORIGINS"
	EnvKeyRedisAddr            string = "REDIS_ADDR"
	EnvKeyRedisPassword        string = "REDIS_PASSWORD"
	EnvKeyInfluxURL            string = "INFLUX_URL"
	EnvKeyInfluxToken          string = "INFLUX_TOKEN"
	EnvKeyInfluxOrg            string = "INFLUX_ORG"
	EnvKeyInfluxBucket         string = "INFLUX_BUCKET"
	EnvKeySMTPHost             string = "SMTP_HOST"
	EnvKeySMTPPort             string = "SMTP_PORT"
	EnvKeySMTPUsername         string = "SMTP_USERNAME"
	EnvKeySMTPPassword         string = "SMTP_PASSWORD"
	EnvKeySMTPFromEmail        string = "SMTP_FROM_EMAIL"
	EnvKeySMTPFromName         string = "SMTP_FROM_NAME"
	EnvKeySMSProvider          string = "SMS_PROVIDER"
	EnvKeySMSAccountID         string = "SMS_ACCOUNT_ID"
	EnvKeySMSAuthToken         string = "SMS_AUTH_TOKEN"
	EnvKeySMSFromNumber        string = "SMS_FROM_NUMBER"
	EnvKeySMSMaxMessageLength  string = "SMS_MAX_MESSAGE_LENGTH"
	EnvKeyNotificationBrand    string = "NOTIFICATION_BRAND"
	DefaultMQTTBrokerPort      int    = 1883
	DefaultNotificationBrand   string = "SmartNest"
	DefaultMonitorIntervalSecs int    = 30

	LoggerNameIOTCore       string = "iot_core"
	LoggerNameBroker        string = "broker"
	LoggerNameMonitor       string = "monitor"
	LoggerNameDispatch      string = "dispatch"
	LoggerNameLive          string = "live"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameGrpcServer    string = "grpc_server"

	LoggerFieldIOTCategory        string = "category"
	LoggerCategoryIOTDevice       string = "device"
	LoggerCategoryIOTReading      string = "reading"
	LoggerCategoryIOTSettings     string = "settings"
	LoggerCategoryIOTNotification string = "notification"
	LoggerCategoryIOTFlock        string = "flock"
	LoggerCategoryBrokerSession   string = "session"
	LoggerCategoryBrokerSecurity  string = "security"
	LoggerCategoryBrokerCommand   string = "command"
	LoggerCategoryBrokerOnboard   string = "onboarding"
)
