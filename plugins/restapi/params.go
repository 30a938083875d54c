package restapi

import (
	"time"

	flag "github.com/spf13/pflag"

	"github.com/gohornet/verdict/pkg/node"
)

const (
	// CfgRestAPIBindAddress the bind address on which the REST API listens on
	CfgRestAPIBindAddress = "restAPI.bindAddress"
	// CfgRestAPIJWTAuthEnabled whether the identity of the caller is taken from a JWT bearer token
	CfgRestAPIJWTAuthEnabled = "restAPI.jwtAuth.enabled"
	// CfgRestAPIJWTAuthSessionTimeout how long issued JWTs are valid
	CfgRestAPIJWTAuthSessionTimeout = "restAPI.jwtAuth.sessionTimeout"
	// CfgRestAPILimitsMaxBodyLength the maximum number of characters that the body of an API call may contain
	CfgRestAPILimitsMaxBodyLength = "restAPI.limits.maxBodyLength"
	// CfgRestAPILimitsMaxResults the maximum number of results that may be returned by an endpoint
	CfgRestAPILimitsMaxResults = "restAPI.limits.maxResults"
)

var params = &node.PluginParams{
	Params: func() *flag.FlagSet {
		fs := flag.NewFlagSet("", flag.ContinueOnError)
		fs.String(CfgRestAPIBindAddress, "localhost:8080", "the bind address on which the REST API listens on")
		fs.Bool(CfgRestAPIJWTAuthEnabled, false, "whether the identity of the caller is taken from a JWT bearer token")
		fs.Duration(CfgRestAPIJWTAuthSessionTimeout, 24*time.Hour, "how long issued JWTs are valid")
		fs.String(CfgRestAPILimitsMaxBodyLength, "1M", "the maximum number of characters that the body of an API call may contain")
		fs.Int(CfgRestAPILimitsMaxResults, 1000, "the maximum number of results that may be returned by an endpoint")
		return fs
	}(),
}
