package rootlayer

import (
	"PIN-RootLayer/internal/chains"
	xerrors "PIN-RootLayer/internal/errors"
	"PIN-RootLayer/internal/signing"
)

// AutoSign fills the signature slot of an unsigned request in place.
// Requests that already carry a signature are returned unchanged. When the
// requester field is unset it defaults to the signer's address before the
// digest is computed, so an omitted requester is signed as the signer itself.
//
// Batch requests are signed item by item; the first failing item aborts the
// whole call, leaving earlier items signed but submitting nothing.
func AutoSign(req any, signer signing.Signer, registry *chains.Registry) error {
	if signer == nil {
		return xerrors.New(xerrors.CodeConfigurationFailure, "signer is required for auto-signing")
	}
	switch r := req.(type) {
	case *SubmitIntentRequest:
		return autoSignIntent(r, signer, registry)
	case *SubmitIntentBatchRequest:
		if r == nil {
			return xerrors.New(xerrors.CodeInvalidArgument, "nil batch request")
		}
		for i := range r.Items {
			if err := autoSignIntent(&r.Items[i], signer, registry); err != nil {
				return err
			}
		}
		return nil
	case *SubmitDirectIntentRequest:
		return autoSignDirectIntent(r, signer, registry)
	default:
		return xerrors.Newf(xerrors.CodeInvalidArgument, "unsupported request type %T", req)
	}
}

// IsSigned reports whether the request already carries a signature. For
// batch requests every item must be signed.
func IsSigned(req any) (bool, error) {
	switch r := req.(type) {
	case *SubmitIntentRequest:
		return r != nil && len(r.Signature) > 0, nil
	case *SubmitIntentBatchRequest:
		if r == nil {
			return false, nil
		}
		for i := range r.Items {
			if len(r.Items[i].Signature) == 0 {
				return false, nil
			}
		}
		return true, nil
	case *SubmitDirectIntentRequest:
		return r != nil && len(r.Signature) > 0, nil
	default:
		return false, xerrors.Newf(xerrors.CodeInvalidArgument, "unsupported request type %T", req)
	}
}

func autoSignIntent(req *SubmitIntentRequest, signer signing.Signer, registry *chains.Registry) error {
	if req == nil {
		return xerrors.New(xerrors.CodeInvalidArgument, "nil request")
	}
	if len(req.Signature) > 0 {
		return nil
	}
	// An omitted requester binds the intent to the signing identity itself.
	if req.Requester == "" {
		req.Requester = signer.Address()
	}
	if req.TipsToken == "" {
		req.TipsToken = ZeroAddress
	}
	if req.BudgetToken == "" {
		req.BudgetToken = ZeroAddress
	}

	chain, err := registry.Resolve(req.SettleChain)
	if err != nil {
		return err
	}
	paramsHash, err := signing.ParamsHash(req.Params.IntentRaw, req.Params.Metadata)
	if err != nil {
		return err
	}
	digest, err := signing.IntentDigest(signing.IntentParams{
		IntentID:      string(req.IntentID),
		SubnetID:      string(req.SubnetID),
		Requester:     req.Requester,
		IntentType:    req.IntentType,
		ParamsHash:    paramsHash,
		Deadline:      req.Deadline,
		BudgetToken:   req.BudgetToken,
		Budget:        req.Budget.String(),
		IntentManager: chain.IntentManagerAddress,
		ChainID:       chain.ChainID,
	})
	if err != nil {
		return err
	}
	sig, err := signer.SignDigest32(digest)
	if err != nil {
		return err
	}
	req.Signature = sig
	return nil
}

func autoSignDirectIntent(req *SubmitDirectIntentRequest, signer signing.Signer, registry *chains.Registry) error {
	if req == nil {
		return xerrors.New(xerrors.CodeInvalidArgument, "nil request")
	}
	if len(req.Signature) > 0 {
		return nil
	}
	if req.Requester == "" {
		req.Requester = signer.Address()
	}
	if req.PaymentToken == "" {
		req.PaymentToken = ZeroAddress
	}

	chain, err := registry.Resolve(req.SettleChain)
	if err != nil {
		return err
	}
	paramsHash, err := signing.ParamsHash(req.Params.IntentRaw, req.Params.Metadata)
	if err != nil {
		return err
	}
	digest, err := signing.DirectIntentDigest(signing.DirectIntentParams{
		IntentID:      string(req.IntentID),
		SubnetID:      string(req.SubnetID),
		Requester:     req.Requester,
		IntentType:    req.IntentType,
		ParamsHash:    paramsHash,
		Deadline:      req.Deadline,
		PaymentToken:  req.PaymentToken,
		Amount:        req.Amount.String(),
		TargetAgent:   req.TargetAgent,
		IntentManager: chain.IntentManagerAddress,
		ChainID:       chain.ChainID,
	})
	if err != nil {
		return err
	}
	sig, err := signer.SignDigest32(digest)
	if err != nil {
		return err
	}
	req.Signature = sig
	return nil
}
