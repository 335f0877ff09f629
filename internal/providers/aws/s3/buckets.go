package awss3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
)

// listPageSize is the MaxBuckets value sent on each ListBuckets page.
// Setting it switches ListBuckets into paginated mode.
const listPageSize = 1000

// ListBuckets lists all buckets in the account (or in listRegion when set).
// Any page failure fails the whole call: a partial list is never returned.
func (c *Client) ListBuckets(ctx context.Context) ([]models.Bucket, error) {
	input := &s3svc.ListBucketsInput{
		MaxBuckets: aws.Int32(listPageSize),
	}
	if c.listRegion != "" {
		input.BucketRegion = aws.String(c.listRegion)
	}

	paginator := s3svc.NewListBucketsPaginator(c.base, input)
	var buckets []models.Bucket
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, listFailure(err)
		}
		for _, b := range page.Buckets {
			bucket := models.Bucket{
				Name:   aws.ToString(b.Name),
				Region: aws.ToString(b.BucketRegion),
			}
			if b.CreationDate != nil {
				bucket.CreatedAt = b.CreationDate.UTC()
			}
			buckets = append(buckets, bucket)
		}
	}
	return buckets, nil
}
