package service

import (
	"context"

	"team-knowledge-be/internal/dto"
	"team-knowledge-be/internal/repository/specification"
	"team-knowledge-be/internal/repository/unitofwork"
)

const activityFeedLimit = 50

type IActivityService interface {
	Feed(ctx context.Context) ([]*dto.ActivityResponse, error)
}

type activityService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewActivityService(uowFactory unitofwork.RepositoryFactory) IActivityService {
	return &activityService{
		uowFactory: uowFactory,
	}
}

func (s *activityService) Feed(ctx context.Context) ([]*dto.ActivityResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	activities, err := uow.ActivityRepository().FindAll(ctx,
		specification.OrderByCreatedDesc{},
		specification.Limit{N: activityFeedLimit},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, &dto.ActivityResponse{
			Id:            activity.Id,
			Type:          activity.Type,
			DocumentId:    activity.DocumentId,
			DocumentTitle: activity.DocumentTitle,
			UserId:        activity.UserId,
			CreatedAt:     activity.CreatedAt,
		})
	}
	return responses, nil
}
