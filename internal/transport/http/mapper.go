package http

import (
	"encoding/json"

	"github.com/vovakirdan/beamchat-server/internal/core"
	"github.com/vovakirdan/beamchat-server/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeRegisterIdentity:
		var data proto.RegisterIdentityData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Identity == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "identity is required"}, nil
		}
		return &core.Command{Kind: core.CommandRegisterIdentity, Identity: data.Identity}, nil, nil

	case proto.InboundTypeRequestStatus:
		var data proto.RequestStatusData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Target == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "target is required"}, nil
		}
		return &core.Command{Kind: core.CommandRequestStatus, Identity: data.Target}, nil, nil

	case proto.InboundTypeTyping, proto.InboundTypeStopTyping:
		var data proto.TypingData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		kind := core.CommandTyping
		if inbound.Type == proto.InboundTypeStopTyping {
			kind = core.CommandStopTyping
		}
		return &core.Command{Kind: kind, Room: data.Room, Identity: data.Identity}, nil, nil

	case proto.InboundTypeJoinRoom:
		var data proto.JoinRoomData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &core.Command{Kind: core.CommandJoinRoom, Room: data.Room}, nil, nil

	case proto.InboundTypeSendMessage:
		var data proto.SendMessageData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandSendMessage,
			Room: data.Room,
			Message: core.MessageInput{
				Sender:   data.Message.Sender,
				Receiver: data.Message.Receiver,
				Text:     data.Message.Text,
				FilePath: data.Message.FilePath,
				FileKind: data.Message.FileKind,
			},
		}, nil, nil

	case proto.InboundTypeCallUser:
		var data proto.CallUserData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Callee == "" || data.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "callee and room are required"}, nil
		}
		return &core.Command{
			Kind:     core.CommandCallUser,
			Identity: data.Callee,
			Room:     data.Room,
			Caller:   data.Caller,
			CallType: data.CallType,
		}, nil, nil

	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventInitialStatus:
		return proto.Outbound{Type: proto.OutboundTypeInitialStatus, Data: statusData(event.Status)}
	case core.EventUserStatus:
		return proto.Outbound{Type: proto.OutboundTypeUserStatus, Data: statusData(event.Status)}
	case core.EventTypingUpdate:
		return proto.Outbound{Type: proto.OutboundTypeTypingUpdate, Data: statusData(event.Status)}
	case core.EventOnlineUsers:
		return proto.Outbound{Type: proto.OutboundTypeOnlineUsers, Data: event.Users}
	case core.EventHistory:
		messages := make([]proto.MessageData, 0, len(event.Messages))
		for _, msg := range event.Messages {
			messages = append(messages, messageData(msg))
		}
		return proto.Outbound{Type: proto.OutboundTypeMessageHistory, Data: messages}
	case core.EventMessage:
		return proto.Outbound{Type: proto.OutboundTypeMessage, Data: messageData(event.Message)}
	case core.EventIncomingCall:
		return proto.Outbound{Type: proto.OutboundTypeIncomingCall, Data: proto.IncomingCallData{
			Room:     event.Call.Room,
			Caller:   event.Call.Caller,
			CallType: event.Call.CallType,
		}}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown event"}}
	}
}

func statusData(status *core.Status) proto.StatusData {
	return proto.StatusData{
		Identity:  status.Identity,
		Status:    status.State,
		Timestamp: status.LastSeen,
	}
}

func messageData(msg *core.Message) proto.MessageData {
	return proto.MessageData{
		ID:         msg.ID,
		Room:       msg.Room,
		Sender:     msg.Sender,
		SenderName: msg.SenderName,
		Receiver:   msg.Receiver,
		Text:       msg.Text,
		FilePath:   msg.FilePath,
		FileKind:   msg.FileKind,
		CreatedAt:  msg.CreatedAt,
	}
}
