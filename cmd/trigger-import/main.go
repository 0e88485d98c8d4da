package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"

	"bitbucket.org/mmdatafocus/salesfield_backend/config"
	"bitbucket.org/mmdatafocus/salesfield_backend/dataimport"
	"bitbucket.org/mmdatafocus/salesfield_backend/utils"
)

// Creates a pending import job document and publishes the trigger message the
// push worker consumes. With -provision it also ensures the topic and a pull
// subscription exist, which is how local runs inspect the traffic.
func main() {
	objectPath := flag.String("object", "", "bucket object path override (default: IMPORT_OBJECT_PATH)")
	provision := flag.Bool("provision", false, "create the import topic and worker subscription if missing")
	flag.Parse()

	ctx := context.Background()

	client, err := config.GetFirestore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "firestore unavailable: %v\n", err)
		os.Exit(1)
	}

	if *provision {
		psClient, err := config.GetClient(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pubsub unavailable: %v\n", err)
			os.Exit(1)
		}
		topicName := utils.EnvOrDefault("PUBSUB_TOPIC_IMPORT", "data-import")
		topic, err := config.CreateTopicIfNotExists(psClient, topicName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "provision topic: %v\n", err)
			os.Exit(1)
		}
		subName := utils.EnvOrDefault("PUBSUB_SUBSCRIPTION_IMPORT", topicName+"-worker")
		if _, err := config.CreateSubscriptionIfNotExists(psClient, subName, topic); err != nil {
			fmt.Fprintf(os.Stderr, "provision subscription: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("topic %q and subscription %q ready\n", topicName, subName)
	}

	jobRef := client.Collection(dataimport.CollectionDataImports).NewDoc()
	if _, err := jobRef.Set(ctx, map[string]interface{}{
		"status":    dataimport.JobStatusPending,
		"createdAt": firestore.ServerTimestamp,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "create job document: %v\n", err)
		os.Exit(1)
	}

	if err := dataimport.AnnounceImportJob(ctx, jobRef.ID, *objectPath); err != nil {
		fmt.Fprintf(os.Stderr, "publish trigger for job %s: %v\n", jobRef.ID, err)
		os.Exit(1)
	}
	fmt.Printf("import job %s queued\n", jobRef.ID)
}
