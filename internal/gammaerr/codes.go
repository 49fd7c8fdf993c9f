package gammaerr

// Library-defined error kinds. Positive codes are errno values and are never
// listed here.
const (
	OK Code = 0

	NoSuchAdjustmentMethod                Code = -1
	ErrnoSet                              Code = -2
	NoSuchSite                            Code = -3
	NoSuchPartition                       Code = -4
	NoSuchCRTC                            Code = -5
	ImpossibleAmount                      Code = -6
	ConnectorDisabled                     Code = -7
	OpenCRTCFailed                        Code = -8
	CRTCInfoNotSupported                  Code = -9
	GammaRampReadFailed                   Code = -10
	GammaRampWriteFailed                  Code = -11
	GammaRampSizeChanged                  Code = -12
	MixedGammaRampSize                    Code = -13
	WrongGammaRampSize                    Code = -14
	SingletonGammaRamp                    Code = -15
	ListCRTCsFailed                       Code = -16
	AcquiringModeResourcesFailed          Code = -17
	NegativePartitionCount                Code = -18
	NegativeCRTCCount                     Code = -19
	DeviceRestricted                      Code = -20
	DeviceAccessFailed                    Code = -21
	DeviceRequireGroup                    Code = -22
	GraphicsCardRemoved                   Code = -23
	StateUnknown                          Code = -24
	ConnectorUnknown                      Code = -25
	ConnectorTypeNotRecognised            Code = -26
	SubpixelOrderNotRecognised            Code = -27
	EDIDLengthUnsupported                 Code = -28
	EDIDWrongMagicNumber                  Code = -29
	EDIDRevisionUnsupported               Code = -30
	GammaNotSpecified                     Code = -31
	EDIDChecksumError                     Code = -32
	GammaNotSpecifiedAndEDIDChecksumError Code = -33
	GammaRampsSizeQueryFailed             Code = -34
	OpenPartitionFailed                   Code = -35
	OpenSiteFailed                        Code = -36
	ProtocolVersionQueryFailed            Code = -37
	ProtocolVersionNotSupported           Code = -38
	ListPartitionsFailed                  Code = -39
	NullPartition                         Code = -40
	NotConnected                          Code = -41
	ReplyValueExtractionFailed            Code = -42
	EDIDNotFound                          Code = -43
	ListPropertiesFailed                  Code = -44
	PropertyValueQueryFailed              Code = -45
	OutputInformationQueryFailed          Code = -46

	// Min is the lowest library-defined code. Anything below it is unknown to
	// this build.
	Min Code = -46
)

type kindInfo struct {
	name string
	desc string
}

// kinds is indexed by -code.
var kinds = [...]kindInfo{
	0:  {"OK", "Success"},
	1:  {"NO_SUCH_ADJUSTMENT_METHOD", "The selected adjustment method does not exist or has been excluded at compile-time"},
	2:  {"ERRNO_SET", "A standard error number has been set to describe the failure"},
	3:  {"NO_SUCH_SITE", "The selected site does not exist"},
	4:  {"NO_SUCH_PARTITION", "The selected partition does not exist"},
	5:  {"NO_SUCH_CRTC", "The selected CRTC does not exist"},
	6:  {"IMPOSSIBLE_AMOUNT", "Counter overflowed when counting the number of available items"},
	7:  {"CONNECTOR_DISABLED", "The selected connector is disabled, it does not have a CRTC"},
	8:  {"OPEN_CRTC_FAILED", "The selected CRTC could not be opened, reason unknown"},
	9:  {"CRTC_INFO_NOT_SUPPORTED", "The CRTC information field is not supported by the adjustment method"},
	10: {"GAMMA_RAMP_READ_FAILED", "Failed to read the current gamma ramps for the selected CRTC, reason unknown"},
	11: {"GAMMA_RAMP_WRITE_FAILED", "Failed to write the current gamma ramps for the selected CRTC, reason unknown"},
	12: {"GAMMA_RAMP_SIZE_CHANGED", "The specified ramp sizes do not match the ramp sizes returned by the adjustment method"},
	13: {"MIXED_GAMMA_RAMP_SIZE", "The specified ramp sizes are not identical, which is required by the adjustment method"},
	14: {"WRONG_GAMMA_RAMP_SIZE", "The specified ramp sizes are not supported by the adjustment method"},
	15: {"SINGLETON_GAMMA_RAMP", "The adjustment method reported that the gamma ramp size is 1 or less"},
	16: {"LIST_CRTCS_FAILED", "The adjustment method failed to list available CRTCs, reason unknown"},
	17: {"ACQUIRING_MODE_RESOURCES_FAILED", "Failed to acquire mode resources from the adjustment method"},
	18: {"NEGATIVE_PARTITION_COUNT", "The adjustment method reported that a negative number of partitions exists in the site"},
	19: {"NEGATIVE_CRTC_COUNT", "The adjustment method reported that a negative number of CRTCs exists in the partition"},
	20: {"DEVICE_RESTRICTED", "Device cannot be accessed because of insufficient permissions"},
	21: {"DEVICE_ACCESS_FAILED", "Device cannot be accessed, reason unknown"},
	22: {"DEVICE_REQUIRE_GROUP", "Device cannot be accessed, membership of a group is required"},
	23: {"GRAPHICS_CARD_REMOVED", "The graphics card appears to have been removed"},
	24: {"STATE_UNKNOWN", "The state of the requested information is unknown"},
	25: {"CONNECTOR_UNKNOWN", "Failed to determine which connector the CRTC belongs to"},
	26: {"CONNECTOR_TYPE_NOT_RECOGNISED", "The detected connector type is not recognised"},
	27: {"SUBPIXEL_ORDER_NOT_RECOGNISED", "The detected subpixel order is not recognised"},
	28: {"EDID_LENGTH_UNSUPPORTED", "The length of the EDID does not match that of any supported EDID structure revision"},
	29: {"EDID_WRONG_MAGIC_NUMBER", "The magic number in the EDID does not match that of any supported EDID structure revision"},
	30: {"EDID_REVISION_UNSUPPORTED", "The EDID structure revision used by the monitor is not supported"},
	31: {"GAMMA_NOT_SPECIFIED", "The gamma characteristics field in the EDID is left unspecified"},
	32: {"EDID_CHECKSUM_ERROR", "The checksum in the EDID is incorrect"},
	33: {"GAMMA_NOT_SPECIFIED_AND_EDID_CHECKSUM_ERROR", "The EDID gamma field is unspecified and the EDID checksum is incorrect"},
	34: {"GAMMA_RAMPS_SIZE_QUERY_FAILED", "Failed to query the gamma ramp size from the adjustment method, reason unknown"},
	35: {"OPEN_PARTITION_FAILED", "The selected partition could not be opened, reason unknown"},
	36: {"OPEN_SITE_FAILED", "The selected site could not be opened, reason unknown"},
	37: {"PROTOCOL_VERSION_QUERY_FAILED", "Failed to query the adjustment method for its protocol version, reason unknown"},
	38: {"PROTOCOL_VERSION_NOT_SUPPORTED", "The adjustment method's version of its protocol is not supported"},
	39: {"LIST_PARTITIONS_FAILED", "The adjustment method failed to list available partitions, reason unknown"},
	40: {"NULL_PARTITION", "Partition exists by index, but the partition at that index does not exist"},
	41: {"NOT_CONNECTED", "There is no monitor connected to the connector of the selected CRTC"},
	42: {"REPLY_VALUE_EXTRACTION_FAILED", "Data extraction from a reply from the adjustment method failed, reason unknown"},
	43: {"EDID_NOT_FOUND", "No EDID property was found on the output"},
	44: {"LIST_PROPERTIES_FAILED", "Failed to list properties on the output, reason unknown"},
	45: {"PROPERTY_VALUE_QUERY_FAILED", "Failed to query a property's value from the output, reason unknown"},
	46: {"OUTPUT_INFORMATION_QUERY_FAILED", "A request for information on an output failed, reason unknown"},
}

var byName map[string]Code

func init() {
	byName = make(map[string]Code, len(kinds))
	for i, k := range kinds {
		if i == 0 {
			continue
		}
		byName[k.name] = Code(-i)
	}
}
