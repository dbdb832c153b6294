// Package retina evolves multi-layer recurrent signal-propagation networks
// ("retinas") with a genetic algorithm, scoring each one by how well a
// freshly trained perceptron separates its output layer activity.
//
// A Genome describes a chain of layers: layer 0 is the receptor layer fed by
// the stimulus, the last layer is the ganglion layer read by the perceptron,
// and any layers in between are interneurons. Each layer carries 32-bit axon
// and dendrite codes, a polarity and a cell count. Connection strength
// between two layers falls off with the distance between their cells and
// grows with the bit agreement between one layer's axon code and the other's
// dendrite code.
//
// Basic usage:
//
//	config, err := retina.LoadConfig("path/to/config.ini")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	dataset, err := retina.LoadDataset("path/to/stimuli.txt")
//	if err != nil {
//		log.Fatalf("Error loading dataset: %v", err)
//	}
//
//	pop, err := retina.NewPopulation(config, dataset)
//	if err != nil {
//		log.Fatalf("Error creating population: %v", err)
//	}
//	pop.CostLog = logFile
//
//	ranked, err := pop.Run(ctx)
//	if err != nil {
//		log.Fatalf("Error running evolution: %v", err)
//	}
//	fmt.Println(ranked[0])
//
// Each generation evaluates every retina (in parallel, one private random
// stream per retina), ranks the population by cost, keeps the first
// num_elites unchanged and replaces the rest with mutated children bred by
// double tournament selection and per-layer crossover.
package retina
