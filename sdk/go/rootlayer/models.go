package rootlayer

import (
	"PIN-RootLayer/internal/encoding"
)

// ZeroAddress denotes "no token" / the native asset in payment fields.
const ZeroAddress = encoding.ZeroAddress

// IntentParams carries the free-form payload of an intent. IntentRaw is
// mandatory; Metadata may be empty.
type IntentParams struct {
	IntentRaw encoding.Bytes `json:"intentRaw"`
	Metadata  encoding.Bytes `json:"metadata,omitempty"`
}

// SubmitIntentRequest asks the gateway to register a new intent. Signature
// may be left empty and filled in by AutoSign before submission.
type SubmitIntentRequest struct {
	IntentID    encoding.Hash32  `json:"intentId"`
	SubnetID    encoding.Hash32  `json:"subnetId"`
	Requester   string           `json:"requester,omitempty"`
	SettleChain string           `json:"settleChain"`
	IntentType  string           `json:"intentType"`
	Params      IntentParams     `json:"params"`
	TipsToken   string           `json:"tipsToken,omitempty"`
	Tips        encoding.Uint256 `json:"tips,omitempty"`
	Deadline    int64            `json:"deadline"`
	Signature   encoding.Bytes   `json:"signature,omitempty"`
	BudgetToken string           `json:"budgetToken,omitempty"`
	Budget      encoding.Uint256 `json:"budget,omitempty"`
}

// SubmitIntentResponse is the gateway acknowledgement for a single intent.
type SubmitIntentResponse struct {
	OK               bool           `json:"ok"`
	Msg              string         `json:"msg,omitempty"`
	IntentID         string         `json:"intentId"`
	ParamsHash       encoding.Bytes `json:"paramsHash,omitempty"`
	IntentExpiration int64          `json:"intentExpiration,omitempty"`
}

// SubmitIntentBatchRequest submits several intents in one call.
type SubmitIntentBatchRequest struct {
	Items           []SubmitIntentRequest `json:"items"`
	BatchID         string                `json:"batchId,omitempty"`
	PartialOK       *bool                 `json:"partialOk,omitempty"`
	TreatExistsAsOK *bool                 `json:"treatExistsAsOk,omitempty"`
}

// SubmitIntentBatchResponse reports per-item results plus aggregate counts.
type SubmitIntentBatchResponse struct {
	Results []SubmitIntentResponse `json:"results"`
	Success int                    `json:"success"`
	Failed  int                    `json:"failed"`
	Msg     string                 `json:"msg,omitempty"`
}

// GetIntentsRequest filters the intent listing. All fields are optional.
type GetIntentsRequest struct {
	IntentID    string `json:"intent_id,omitempty"`
	SubnetID    string `json:"subnet_id,omitempty"`
	Status      string `json:"status,omitempty"`
	Requester   string `json:"requester,omitempty"`
	MinDeadline int64  `json:"min_deadline,omitempty"`
	MinTips     string `json:"min_tips,omitempty"`
	Page        int    `json:"page,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
	OrderBy     string `json:"order_by,omitempty"`
	OrderDir    string `json:"order_dir,omitempty"`
}

// Intent is the gateway's view of a registered intent.
type Intent struct {
	IntentID             string         `json:"intentId"`
	SubnetID             string         `json:"subnetId"`
	Requester            string         `json:"requester"`
	SettleChain          string         `json:"settleChain"`
	IntentType           string         `json:"intentType"`
	Params               *IntentParams  `json:"params,omitempty"`
	ParamsHash           encoding.Bytes `json:"paramsHash,omitempty"`
	TipsToken            string         `json:"tipsToken,omitempty"`
	Tips                 string         `json:"tips,omitempty"`
	BudgetToken          string         `json:"budgetToken,omitempty"`
	Budget               string         `json:"budget,omitempty"`
	Deadline             int64          `json:"deadline,omitempty"`
	IntentExpiration     int64          `json:"intentExpiration,omitempty"`
	Status               any            `json:"status,omitempty"`
	CreatedAt            int64          `json:"createdAt,omitempty"`
	Signature            encoding.Bytes `json:"signature,omitempty"`
	PendingConfirmed     *bool          `json:"pendingConfirmed,omitempty"`
	ProcessingConfirmed  *bool          `json:"processingConfirmed,omitempty"`
	ValidationConfirmed  *bool          `json:"validationConfirmed,omitempty"`
}

// GetIntentsResponse is a paginated intent listing.
type GetIntentsResponse struct {
	Intents    []Intent `json:"intents"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	TotalPages int      `json:"totalPages"`
}

// Ack is a generic success/failure acknowledgement.
type Ack struct {
	OK     bool   `json:"ok"`
	Msg    string `json:"msg,omitempty"`
	TxHash string `json:"txHash,omitempty"`
}

// Assignment reports the matching of an agent to an intent.
type Assignment struct {
	AssignmentID encoding.Hash32 `json:"assignmentId"`
	IntentID     encoding.Hash32 `json:"intentId"`
	AgentID      string          `json:"agentId"`
	BidID        encoding.Hash32 `json:"bidId"`
	Status       any             `json:"status"`
	MatcherID    string          `json:"matcherId"`
	Signature    encoding.Bytes  `json:"signature,omitempty"`
}

// AssignmentBatch groups several assignments into one callback.
type AssignmentBatch struct {
	Assignments []Assignment `json:"assignments"`
	BatchID     string       `json:"batchId,omitempty"`
	CreatedAt   int64        `json:"createdAt,omitempty"`
}

// DirectResult is the execution outcome of a direct intent.
type DirectResult struct {
	IntentID      string           `json:"intentId"`
	AgentAddress  string           `json:"agentAddress"`
	Success       bool             `json:"success"`
	ResultData    encoding.Bytes   `json:"resultData"`
	ResultHash    string           `json:"resultHash"`
	ErrorMessage  string           `json:"errorMessage,omitempty"`
	Timestamp     int64            `json:"timestamp"`
	TargetAgentID encoding.Uint256 `json:"targetAgentId,omitempty"`
	SubnetID      encoding.Hash32  `json:"subnetId,omitempty"`
}

// SubmitDirectIntentRequest routes an intent directly to a target agent.
type SubmitDirectIntentRequest struct {
	IntentID      encoding.Hash32  `json:"intentId"`
	SubnetID      encoding.Hash32  `json:"subnetId"`
	Requester     string           `json:"requester,omitempty"`
	SettleChain   string           `json:"settleChain"`
	IntentType    string           `json:"intentType"`
	Params        IntentParams     `json:"params"`
	PaymentToken  string           `json:"paymentToken,omitempty"`
	Amount        encoding.Uint256 `json:"amount"`
	Deadline      int64            `json:"deadline"`
	Signature     encoding.Bytes   `json:"signature,omitempty"`
	TargetAgent   string           `json:"targetAgent"`
	TargetAgentID encoding.Uint256 `json:"targetAgentId"`
}

// SubmitDirectIntentResponse carries the synchronous outcome of a direct
// intent, including the agent's result when execution completed in-line.
type SubmitDirectIntentResponse struct {
	OK         bool           `json:"ok"`
	Msg        string         `json:"msg,omitempty"`
	IntentID   string         `json:"intentId"`
	Result     *DirectResult  `json:"result,omitempty"`
	ParamsHash encoding.Bytes `json:"paramsHash,omitempty"`
	Status     string         `json:"status,omitempty"`
}

// HealthCheckResponse reports gateway liveness.
type HealthCheckResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp int64             `json:"timestamp"`
	Version   string            `json:"version,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}
