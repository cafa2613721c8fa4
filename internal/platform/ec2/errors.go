package ec2

import (
	"errors"

	"github.com/aws/smithy-go"
)

// EC2 reports most conditions through API error codes rather than typed
// errors, so classification is code matching on smithy.APIError.

var notFoundCodes = map[string]bool{
	"InvalidGroup.NotFound":              true,
	"InvalidPlacementGroup.Unknown":      true,
	"InvalidInstanceID.NotFound":         true,
	"InvalidSubnetID.NotFound":           true,
	"InvalidAMIID.NotFound":              true,
	"InvalidVpcID.NotFound":              true,
	"InvalidKeyPair.NotFound":            true,
	"InvalidNetworkInterfaceID.NotFound": true,
}

var duplicateCodes = map[string]bool{
	"InvalidGroup.Duplicate":          true,
	"InvalidPermission.Duplicate":     true,
	"InvalidPlacementGroup.Duplicate": true,
}

var transientCodes = map[string]bool{
	"InsufficientInstanceCapacity": true,
	"InstanceLimitExceeded":        true,
	"RequestLimitExceeded":         true,
	"Unavailable":                  true,
	"InternalError":                true,
}

// IsNotFound reports whether err says the referenced resource does not exist.
func IsNotFound(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && notFoundCodes[apiErr.ErrorCode()]
}

// IsDuplicate reports whether err says the resource or rule already exists.
func IsDuplicate(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && duplicateCodes[apiErr.ErrorCode()]
}

// IsTransient reports whether err is worth retrying: capacity or rate
// limits, or a server-side fault.
func IsTransient(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if transientCodes[apiErr.ErrorCode()] {
		return true
	}
	return apiErr.ErrorFault() == smithy.FaultServer
}
